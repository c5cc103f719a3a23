package response

const (
	MsgInvalidRequest     = "invalid request format"
	MsgLoginRequired      = "login required"
	MsgNotLoggedIn        = "not logged in"
	MsgEmptyCredentials   = "please enter email and password"
	MsgInvalidCredentials = "invalid login credentials"
	MsgEventNotFound      = "event not found"
	MsgPhotoNotFound      = "no photo at that index"
	MsgMissingUpload      = "event_id, title and date are required"
	MsgMissingEventID     = "event_id is required"
	MsgMissingPhotoIndex  = "event_id and photo_index are required"
	MsgMissingPhotosJSON  = "event_id and photos_json are required"
	MsgInvalidStatsQuery  = "invalid unit or date range"
	MsgRequestTooLarge    = "request body too large"
	MsgInvalidEventID     = "event_id may only contain lowercase letters, digits, underscores and hyphens"
	MsgNoFiles            = "please upload at least one image file"
	MsgNoValidImages      = "no valid images"
	MsgInvalidPhotosJSON  = "photos_json is malformed"
	MsgMethodNotAllowed   = "method not allowed"
	MsgNotFound           = "not found"
	MsgInternal           = "internal server error"
)

var (
	ErrInvalidRequestFormat = Fail(MsgInvalidRequest)
	ErrAuthenticationFailed = Fail(MsgInvalidCredentials)
)
