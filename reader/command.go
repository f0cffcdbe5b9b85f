package reader

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
)

// DefaultURL is where the reader bridge listens on a terminal.
const DefaultURL = "ws://localhost:62536"

// MaxCardData is the number of characters the card's EPC bank can hold.
const MaxCardData = 24

// Handshake is the first frame sent after the websocket opens.
const Handshake = "GetConnect"

// Operation selects what the terminal asks the reader to do.
type Operation string

const (
	OpRead    Operation = "read"
	OpWrite   Operation = "write"
	OpBalance Operation = "balance"
	OpPayment Operation = "payment"
)

// commandTerminator closes commands that carry an argument.
const commandTerminator = "x"

// Command is one text frame for the reader bridge.
type Command struct {
	Op     Operation
	Data   string // OpWrite
	Amount int64  // OpPayment
}

// ScanTID asks the reader for the TID of the card on the antenna.
func ScanTID() Command { return Command{Op: OpRead} }

// ReadBalance asks the reader for the balance stored on the card.
func ReadBalance() Command { return Command{Op: OpBalance} }

// WriteEPC asks the reader to write data into the card's EPC bank.
func WriteEPC(data string) Command { return Command{Op: OpWrite, Data: data} }

// Pay asks the reader to debit amount from the card.
func Pay(amount int64) Command { return Command{Op: OpPayment, Amount: amount} }

// ValidateCardData reports whether data fits on a card.
func ValidateCardData(data string) error {
	if n := utf8.RuneCountInString(data); n > MaxCardData {
		return fmt.Errorf("card data has %d characters, max %d: %w", n, MaxCardData, berr.ErrPayloadTooLong)
	}

	return nil
}

// Encode renders the command frame.
func (c Command) Encode() (string, error) {
	switch c.Op {
	case OpRead:
		return "quet the tid", nil
	case OpBalance:
		return "doc so du", nil
	case OpWrite:
		if err := ValidateCardData(c.Data); err != nil {
			return "", err
		}

		return "ghi epc|" + c.Data + commandTerminator, nil
	case OpPayment:
		if c.Amount <= 0 {
			return "", fmt.Errorf("payment amount %d: %w", c.Amount, berr.ErrInvalidCommand)
		}

		return "thanh_toan|" + strconv.FormatInt(c.Amount, 10) + commandTerminator, nil
	default:
		return "", fmt.Errorf("operation %q: %w", c.Op, berr.ErrInvalidCommand)
	}
}
