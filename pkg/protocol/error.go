package protocol

// ErrorReport is a structured error sent to the client. Fatal errors
// mean the session is gone and the client should reload.
type ErrorReport struct {
	Code    string
	Message string
	Fatal   bool
}

// EncodeError serializes an error report.
func EncodeError(e *ErrorReport) []byte {
	enc := NewEncoder()
	enc.WriteString(e.Code)
	enc.WriteString(e.Message)
	enc.WriteBool(e.Fatal)
	return enc.Bytes()
}

// DecodeError parses an error report.
func DecodeError(data []byte) (*ErrorReport, error) {
	d := NewDecoder(data)

	code, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	msg, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}

	return &ErrorReport{Code: code, Message: msg, Fatal: fatal}, nil
}
