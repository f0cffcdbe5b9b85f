package reader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
	"github.com/next-trace/scg-rfid-reader/reader"
)

func TestCommand_Encode(t *testing.T) {
	tests := []struct {
		cmd  reader.Command
		want string
	}{
		{reader.ScanTID(), "quet the tid"},
		{reader.ReadBalance(), "doc so du"},
		{reader.WriteEPC("20500"), "ghi epc|20500x"},
		{reader.Pay(45000), "thanh_toan|45000x"},
	}

	for _, tc := range tests {
		got, err := tc.cmd.Encode()
		require.NoError(t, err, tc.cmd.Op)
		assert.Equal(t, tc.want, got)
	}
}

func TestCommand_Encode_Invalid(t *testing.T) {
	_, err := reader.WriteEPC(strings.Repeat("9", 25)).Encode()
	assert.ErrorIs(t, err, berr.ErrPayloadTooLong)

	_, err = reader.Pay(0).Encode()
	assert.ErrorIs(t, err, berr.ErrInvalidCommand)

	_, err = reader.Command{Op: "format"}.Encode()
	assert.ErrorIs(t, err, berr.ErrInvalidCommand)
}

func TestValidateCardData(t *testing.T) {
	assert.NoError(t, reader.ValidateCardData(""))
	assert.NoError(t, reader.ValidateCardData(strings.Repeat("a", 24)))
	// characters, not bytes
	assert.NoError(t, reader.ValidateCardData(strings.Repeat("đ", 24)))
	assert.ErrorIs(t, reader.ValidateCardData(strings.Repeat("a", 25)), berr.ErrPayloadTooLong)
}

func TestParseFrame(t *testing.T) {
	for _, echo := range []string{"", "ghi epc|1x", "quet the tid", "GetConnect", "thanh_toan|5x", "doc so du"} {
		_, ok, err := reader.ParseFrame(echo)
		assert.False(t, ok, echo)
		assert.NoError(t, err, echo)
	}

	resp, ok, err := reader.ParseFrame(`{"code":200,"tid":"E2801160","message":"150000"}`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "E2801160", resp.TID)
	assert.Equal(t, reader.OutcomeSuccess, resp.Outcome())

	_, _, err = reader.ParseFrame(`{code`)
	assert.ErrorIs(t, err, berr.ErrUnexpectedResponse)

	var joined interface{ Unwrap() []error }
	require.ErrorAs(t, err, &joined)
	assert.Len(t, joined.Unwrap(), 2, "decode error is kept next to the sentinel")
}

func TestResponse_Outcome(t *testing.T) {
	tests := []struct {
		resp reader.Response
		want reader.Outcome
	}{
		{reader.Response{Code: 201}, reader.OutcomeSuccess},
		{reader.Response{Code: 204}, reader.OutcomeSuccess},
		{reader.Response{Code: 205}, reader.OutcomeSuccess},
		{reader.Response{Code: 406}, reader.OutcomeCardNotFound},
		{reader.Response{Code: 407, Message: "1000"}, reader.OutcomeInsufficientBalance},
		{reader.Response{Code: 500}, reader.OutcomeFailure},
		{reader.Response{Error: "antenna"}, reader.OutcomeFailure},
		{reader.Response{Code: 102}, reader.OutcomeIgnore},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.resp.Outcome(), "code %d", tc.resp.Code)
	}

	assert.Equal(t, "insufficient_balance", reader.OutcomeInsufficientBalance.String())
	assert.Equal(t, "ignore", reader.OutcomeIgnore.String())
}

func TestCharge(t *testing.T) {
	card := reader.Card{PartnerID: 7, TID: "E2", Balance: 50000}

	ok := reader.Charge(card, 20500)
	assert.Equal(t, reader.OutcomeSuccess, ok.Outcome)
	assert.Equal(t, int64(29500), ok.NewBalance)

	exact := reader.Charge(card, 50000)
	assert.Equal(t, reader.OutcomeSuccess, exact.Outcome)
	assert.Zero(t, exact.NewBalance)

	short := reader.Charge(card, 50001)
	assert.Equal(t, reader.OutcomeInsufficientBalance, short.Outcome)
	assert.Equal(t, int64(50000), short.NewBalance)
}
