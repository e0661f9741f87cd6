package protocol

import "errors"

// EventType identifies a client event.
type EventType uint8

const (
	EventClick      EventType = 0x01
	EventDblClick   EventType = 0x02
	EventMouseEnter EventType = 0x03
	EventMouseLeave EventType = 0x04

	EventInput  EventType = 0x10
	EventChange EventType = 0x11
	EventSubmit EventType = 0x12
	EventFocus  EventType = 0x13
	EventBlur   EventType = 0x14

	EventKeyDown EventType = 0x20
	EventKeyUp   EventType = 0x21

	EventCustom EventType = 0xFF
)

// String returns the event type name.
func (et EventType) String() string {
	switch et {
	case EventClick:
		return "Click"
	case EventDblClick:
		return "DblClick"
	case EventMouseEnter:
		return "MouseEnter"
	case EventMouseLeave:
		return "MouseLeave"
	case EventInput:
		return "Input"
	case EventChange:
		return "Change"
	case EventSubmit:
		return "Submit"
	case EventFocus:
		return "Focus"
	case EventBlur:
		return "Blur"
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// DOMName returns the event's DOM name ("click", "input"), matching the
// "on"-prefixed keys in vdom props. Empty for unknown types.
func (et EventType) DOMName() string {
	switch et {
	case EventClick:
		return "click"
	case EventDblClick:
		return "dblclick"
	case EventMouseEnter:
		return "mouseenter"
	case EventMouseLeave:
		return "mouseleave"
	case EventInput:
		return "input"
	case EventChange:
		return "change"
	case EventSubmit:
		return "submit"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	default:
		return ""
	}
}

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModCtrl  Modifiers = 0x01
	ModShift Modifiers = 0x02
	ModAlt   Modifiers = 0x04
	ModMeta  Modifiers = 0x08
)

// Has reports whether mod is set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

// KeyEventData is the payload for keyboard events.
type KeyEventData struct {
	Key       string
	Modifiers Modifiers
	Repeat    bool
}

// SubmitEventData carries form fields on submit.
type SubmitEventData struct {
	Fields map[string]string
}

// CustomEventData carries an application-defined payload.
type CustomEventData struct {
	Name string
	Data []byte
}

// Event is a decoded client event. Payload is type-specific: string for
// input/change, *KeyEventData for key events, *SubmitEventData for
// submit, *CustomEventData for custom, nil for the rest.
type Event struct {
	Seq     uint64
	Type    EventType
	HID     string
	Payload any
}

var ErrUnknownEventType = errors.New("protocol: unknown event type")

// EncodeEvent serializes an event.
func EncodeEvent(e *Event) []byte {
	enc := NewEncoder()
	enc.WriteUvarint(e.Seq)
	enc.WriteByte(byte(e.Type))
	enc.WriteString(e.HID)

	switch e.Type {
	case EventInput, EventChange:
		s, _ := e.Payload.(string)
		enc.WriteString(s)

	case EventSubmit:
		data, _ := e.Payload.(*SubmitEventData)
		if data == nil {
			enc.WriteUvarint(0)
			break
		}
		enc.WriteUvarint(uint64(len(data.Fields)))
		for k, v := range data.Fields {
			enc.WriteString(k)
			enc.WriteString(v)
		}

	case EventKeyDown, EventKeyUp:
		data, _ := e.Payload.(*KeyEventData)
		if data == nil {
			data = &KeyEventData{}
		}
		enc.WriteString(data.Key)
		enc.WriteByte(byte(data.Modifiers))
		enc.WriteBool(data.Repeat)

	case EventCustom:
		data, _ := e.Payload.(*CustomEventData)
		if data == nil {
			data = &CustomEventData{}
		}
		enc.WriteString(data.Name)
		enc.WriteLenBytes(data.Data)
	}

	return enc.Bytes()
}

// DecodeEvent parses an event payload.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	hid, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	e := &Event{Seq: seq, Type: EventType(typeByte), HID: hid}

	switch e.Type {
	case EventClick, EventDblClick, EventMouseEnter, EventMouseLeave,
		EventFocus, EventBlur:
		// No payload

	case EventInput, EventChange:
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		e.Payload = s

	case EventSubmit:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		fields := make(map[string]string, count)
		for i := 0; i < count; i++ {
			k, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			v, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			fields[k] = v
		}
		e.Payload = &SubmitEventData{Fields: fields}

	case EventKeyDown, EventKeyUp:
		key, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		mods, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		repeat, err := d.ReadBool()
		if err != nil {
			return nil, err
		}
		e.Payload = &KeyEventData{Key: key, Modifiers: Modifiers(mods), Repeat: repeat}

	case EventCustom:
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		raw, err := d.ReadLenBytes()
		if err != nil {
			return nil, err
		}
		e.Payload = &CustomEventData{Name: name, Data: raw}

	default:
		return nil, ErrUnknownEventType
	}

	return e, nil
}
