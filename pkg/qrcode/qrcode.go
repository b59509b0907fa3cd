// Package qrcode renders UPI payment requests as QR code images.
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// ContentType is the MIME type of images returned by Generate.
const ContentType = "image/jpeg"

var (
	ErrMissingPayee  = errors.New("payee UPI ID is required")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// UPILink builds a upi://pay deep link for paying amount rupees to vpa.
// Parameters keep the order UPI apps document: pa, pn, am, cu.
func UPILink(vpa, payeeName string, amount decimal.Decimal) (string, error) {
	if strings.TrimSpace(vpa) == "" {
		return "", ErrMissingPayee
	}
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}

	params := []string{"pa=" + escape(vpa)}
	if payeeName != "" {
		params = append(params, "pn="+escape(payeeName))
	}
	params = append(params,
		"am="+amount.StringFixed(2),
		"cu=INR",
	)
	return "upi://pay?" + strings.Join(params, "&"), nil
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// bufferCloser lets the standard writer target an in-memory buffer.
type bufferCloser struct {
	*bytes.Buffer
}

func (bufferCloser) Close() error { return nil }

// Generate encodes content as a QR code and returns the JPEG bytes.
func Generate(content string) ([]byte, error) {
	qrc, err := qrcode.New(content)
	if err != nil {
		return nil, fmt.Errorf("error creating QR code: %w", err)
	}

	buf := bufferCloser{Buffer: new(bytes.Buffer)}
	w := standard.NewWithWriter(buf, standard.WithBuiltinImageEncoder(standard.JPEG_FORMAT))
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("error saving QR code: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateUPI builds the deep link for a payment and renders it.
func GenerateUPI(vpa, payeeName string, amount decimal.Decimal) (link string, image []byte, err error) {
	link, err = UPILink(vpa, payeeName, amount)
	if err != nil {
		return "", nil, err
	}
	image, err = Generate(link)
	if err != nil {
		return "", nil, err
	}
	return link, image, nil
}
