package event

import (
	"errors"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
)

var ErrInvalidPayload = errors.New("invalid event payload")

// ServeNumber disambiguates which serve a point was played on.
type ServeNumber string

const (
	ServeFirst  ServeNumber = "FIRST"
	ServeSecond ServeNumber = "SECOND"
)

// Detail is the typed payload variant attached to an event. The legacy wire
// format is an untyped JSON bag; DecodePayload narrows it to one variant per
// event category so the stats mapping can stay exhaustive.
type Detail interface {
	isDetail()
}

// ServeDetail annotates serve events that repeat the serve number in the
// payload. It carries no counters of its own.
type ServeDetail struct {
	Serve ServeNumber
}

// PointWonDetail carries the independent flags of a won point. A single
// POINT_WON event may set several of them at once.
type PointWonDetail struct {
	Serve       ServeNumber
	Exit34      bool
	ReturnPoint bool
}

// PointLostDetail carries the flags of a lost point.
type PointLostDetail struct {
	Exit34 bool
}

func (ServeDetail) isDetail()     {}
func (PointWonDetail) isDetail()  {}
func (PointLostDetail) isDetail() {}

// wirePayload mirrors the legacy additionalData JSON shape.
type wirePayload struct {
	ServeType   string `json:"serveType,omitempty"`
	PointType   string `json:"pointType,omitempty"`
	ErrorType   string `json:"errorType,omitempty"`
	Exit34      bool   `json:"exit34,omitempty"`
	ReturnPoint bool   `json:"returnPoint,omitempty"`
}

// DecodePayload validates raw additional data against the event type and
// returns the typed variant for it. Events without payload semantics, unknown
// tags included, decode to nil: recording them succeeds and aggregation treats
// them as no-ops.
func DecodePayload(t Type, raw []byte) (Detail, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var wire wirePayload
	if err := sonic.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	serve, err := parseServeNumber(wire.ServeType)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypePointWon:
		return PointWonDetail{
			Serve:       serve,
			Exit34:      wire.Exit34,
			ReturnPoint: wire.ReturnPoint,
		}, nil
	case TypePointLost:
		return PointLostDetail{Exit34: wire.Exit34}, nil
	case TypeFirstServeIn, TypeFirstServeOut, TypeSecondServeIn, TypeSecondServeOut:
		if serve == "" {
			return nil, nil
		}
		return ServeDetail{Serve: serve}, nil
	default:
		return nil, nil
	}
}

// EncodePayload renders a typed detail back into the legacy wire shape for
// storage. Nil details encode to nil.
func EncodePayload(d Detail) ([]byte, error) {
	if d == nil {
		return nil, nil
	}

	var wire wirePayload
	switch detail := d.(type) {
	case ServeDetail:
		wire.ServeType = string(detail.Serve)
	case PointWonDetail:
		wire.ServeType = string(detail.Serve)
		wire.Exit34 = detail.Exit34
		wire.ReturnPoint = detail.ReturnPoint
	case PointLostDetail:
		wire.Exit34 = detail.Exit34
	default:
		return nil, fmt.Errorf("%w: unsupported detail %T", ErrInvalidPayload, d)
	}

	return sonic.Marshal(wire)
}

func parseServeNumber(raw string) (ServeNumber, error) {
	switch ServeNumber(strings.ToUpper(strings.TrimSpace(raw))) {
	case "":
		return "", nil
	case ServeFirst:
		return ServeFirst, nil
	case ServeSecond:
		return ServeSecond, nil
	default:
		return "", fmt.Errorf("%w: unknown serveType %q", ErrInvalidPayload, raw)
	}
}
