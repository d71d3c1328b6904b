package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-pass-api/internal/access"
	"github.com/noah-isme/campus-pass-api/internal/dto"
	"github.com/noah-isme/campus-pass-api/internal/models"
)

type scanBody struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	StudentName string `json:"studentName"`
}

func TestScanRejectsMalformedPayload(t *testing.T) {
	server := newTestServer(t)

	for name, body := range map[string]interface{}{
		"missing qr":  map[string]string{},
		"not base64":  dto.ScanRequest{QRData: "%%%"},
		"not json":    dto.ScanRequest{QRData: "aGVsbG8gd29ybGQ="},
		"wrong shape": dto.ScanRequest{QRData: "eyJmb28iOiJiYXIifQ=="},
	} {
		resp := server.do(t, http.MethodPost, "/api/v1/cards/scan", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, name)

		var payload scanBody
		decodeBody(t, resp, &payload)
		require.False(t, payload.Success, name)
		require.Equal(t, "invalid data", payload.Message, name)
	}
}

func TestScanAuthorizesOncePerDay(t *testing.T) {
	server := newTestServer(t)
	now := time.Now().UTC()
	student := server.seedStudent(t, "Daily Visitor")
	payment := server.seedPayment(t, student.ID, 5000, now.Add(-48*time.Hour), now.Add(30*24*time.Hour), models.PaymentStatusValid)
	require.NoError(t, server.db.Create(&models.AccessCard{StudentID: student.ID, PaymentID: payment.ID, Serial: "s-1", QRData: "x"}).Error)

	qr, err := access.EncodePayload(access.Payload{
		StudentID:  student.ID,
		Amount:     payment.Amount,
		ValidFrom:  payment.ValidFrom,
		ValidUntil: payment.ValidUntil,
		Status:     models.PaymentStatusValid,
	})
	require.NoError(t, err)

	resp := server.do(t, http.MethodPost, "/api/v1/cards/scan", dto.ScanRequest{QRData: qr})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first scanBody
	decodeBody(t, resp, &first)
	require.True(t, first.Success)
	require.Equal(t, "AUTHORIZED", first.Status)
	require.Equal(t, "Daily Visitor", first.StudentName)

	resp = server.do(t, http.MethodPost, "/api/v1/cards/scan", dto.ScanRequest{QRData: qr})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second scanBody
	decodeBody(t, resp, &second)
	require.False(t, second.Success)
	require.Equal(t, "REFUSED", second.Status)
	require.Equal(t, string(access.ReasonAlreadyScannedToday), second.Reason)

	var logs []models.ScanLog
	require.NoError(t, server.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, uint(7), logs[0].GuardianID)
}

func TestScanReportsExpiredPayload(t *testing.T) {
	server := newTestServer(t)
	student := server.seedStudent(t, "Lapsed Payer")

	qr, err := access.EncodePayload(access.Payload{
		StudentID:  student.ID,
		ValidFrom:  time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC),
		Status:     models.PaymentStatusValid,
	})
	require.NoError(t, err)

	resp := server.do(t, http.MethodPost, "/api/v1/cards/scan", dto.ScanRequest{QRData: qr})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload scanBody
	decodeBody(t, resp, &payload)
	require.False(t, payload.Success)
	require.Equal(t, "EXPIRED", payload.Status)
	require.Equal(t, string(access.ReasonExpired), payload.Reason)
}
