package messages

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypeParse    MessageType = "parse"
	MessageTypeBoard    MessageType = "board"
	MessageTypeUnit     MessageType = "unit"
	MessageTypeForces   MessageType = "forces"
	MessageTypeShutdown MessageType = "shutdown"
	MessageTypeError    MessageType = "error"
)

// Error codes carried by ErrorMessage
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnknownMessageType = "UNKNOWN_MESSAGE_TYPE"
	CodeUnknownFormat      = "UNKNOWN_FORMAT"
	CodeMissingFile        = "MISSING_FILE"
	CodeMalformedSyntax    = "MALFORMED_SYNTAX"
	CodeMissingField       = "MISSING_REQUIRED_FIELD"
	CodeTypeCoercion       = "TYPE_COERCION"
	CodeDimensionMismatch  = "DIMENSION_MISMATCH"
	CodeUnitNotFound       = "UNIT_NOT_FOUND"
	CodeUnknownCategory    = "UNKNOWN_CATEGORY"
	CodeInternal           = "INTERNAL"
)

// BaseMessage is the envelope of every request and reply. Replies echo the
// request type and id.
type BaseMessage struct {
	Type    MessageType `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload"`
}

// ParseRequest runs one pipeline on inline text
type ParseRequest struct {
	Format string `json:"format"` // mtf, blk, mul or board
	Text   string `json:"text"`
}

// BoardRequest asks for the layer projection of a board file
type BoardRequest struct {
	Filename string `json:"filename"`
}

// UnitRequest asks for a unit record by the attributes a force entity carries
type UnitRequest struct {
	Chassis string `json:"chassis"`
	Model   string `json:"model"`
	Type    string `json:"type"` // Biped, Tracked
}

// ForcesRequest carries the text of a .mul force file
type ForcesRequest struct {
	Text string `json:"text"`
}

// ShutdownMessage tells clients the server is going away
type ShutdownMessage struct {
	Message string `json:"message"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
