package reader

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status codes returned by the reader bridge.
const (
	CodeOK                  = 200
	CodeWritten             = 201
	CodeNoContent           = 204
	CodeDone                = 205
	CodeCardNotFound        = 406
	CodeInsufficientBalance = 407
	CodeError               = 500
)

// Outcome classifies a response.
type Outcome int

const (
	// OutcomeIgnore marks echo frames and unrecognised codes; keep waiting.
	OutcomeIgnore Outcome = iota
	OutcomeSuccess
	OutcomeCardNotFound
	OutcomeInsufficientBalance
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCardNotFound:
		return "card_not_found"
	case OutcomeInsufficientBalance:
		return "insufficient_balance"
	case OutcomeFailure:
		return "failure"
	default:
		return "ignore"
	}
}

// Response is a JSON frame sent by the reader bridge.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	TID     string `json:"tid,omitempty"`
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Outcome classifies the response code.
func (r Response) Outcome() Outcome {
	switch {
	case r.Code == CodeOK, r.Code == CodeWritten, r.Code == CodeNoContent, r.Code == CodeDone:
		return OutcomeSuccess
	case r.Code == CodeCardNotFound:
		return OutcomeCardNotFound
	case r.Code == CodeInsufficientBalance:
		return OutcomeInsufficientBalance
	case r.Code == CodeError, r.Error != "":
		return OutcomeFailure
	default:
		return OutcomeIgnore
	}
}

// isEcho reports frames that repeat a command back ("ghi…", "quet…", "GetConnect",
// "thanh_toan…", "doc…") instead of carrying a result.
func isEcho(frame string) bool {
	if frame == "" {
		return true
	}

	switch frame[0] {
	case 'g', 'q', 'G', 't', 'd':
		return true
	default:
		return false
	}
}

// ParseFrame decodes one frame. Echo frames return ok=false and no error.
func ParseFrame(frame string) (resp Response, ok bool, err error) {
	if isEcho(frame) {
		return Response{}, false, nil
	}

	if err := json.UnmarshalFromString(frame, &resp); err != nil {
		return Response{}, false, fmt.Errorf("reader frame %q: %w", frame, errors.Join(berr.ErrUnexpectedResponse, err))
	}

	return resp, true, nil
}
