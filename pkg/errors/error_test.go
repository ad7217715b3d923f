package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewAndCode() {
	err := New(ErrCodeEmptyPriceSeries, "price series cannot be empty")

	suite.Equal(ErrCodeEmptyPriceSeries, GetCode(err))
	suite.True(HasCode(err, ErrCodeEmptyPriceSeries))
	suite.False(HasCode(err, ErrCodeNoTrades))
	suite.Contains(err.Error(), "price series cannot be empty")
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeInvalidThreshold, "oversold %.1f must be below overbought %.1f", 80.0, 70.0)

	suite.Contains(err.Error(), "80.0")
	suite.True(HasCode(err, ErrCodeInvalidThreshold))
}

func (suite *ErrorTestSuite) TestWrapPreservesCause() {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeExportFailed, "failed to write trades", cause)

	suite.True(stderrors.Is(err, cause))
	suite.Contains(err.Error(), "disk full")
	suite.True(HasCode(err, ErrCodeExportFailed))
}

func (suite *ErrorTestSuite) TestGetCodeOnForeignError() {
	suite.Equal(ErrCodeUnknown, GetCode(stderrors.New("plain")))
}

func (suite *ErrorTestSuite) TestAs() {
	err := Wrapf(ErrCodeDataParseFailed, stderrors.New("bad row"), "failed to parse %s", "prices.csv")

	var structured *Error
	suite.Require().True(As(err, &structured))
	suite.Equal(ErrCodeDataParseFailed, structured.Code)
}
