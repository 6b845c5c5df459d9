package solapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	messagingapp "github.com/masgolf/backend/internal/application/messaging"
	"github.com/masgolf/backend/internal/domain/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var authPattern = regexp.MustCompile(`^HMAC-SHA256 apiKey=key, date=(\S+), salt=([0-9a-f]{32}), signature=([0-9a-f]{64})$`)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(&Config{
		APIKey:     "key",
		APISecret:  "secret",
		Sender:     "031-215-0013",
		BaseURL:    server.URL,
		PFID:       "KA01PF",
		RatePerSec: 1000,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"valid", Config{APIKey: "k", APISecret: "s", Sender: "0312150013"}, nil},
		{"missing key", Config{APISecret: "s", Sender: "0312150013"}, ErrMissingAPIKey},
		{"missing secret", Config{APIKey: "k", Sender: "0312150013"}, ErrMissingAPISecret},
		{"missing sender", Config{APIKey: "k", APISecret: "s"}, ErrMissingSender},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultBaseURL, tt.config.BaseURL)
			assert.Positive(t, tt.config.RatePerSec)
		})
	}
}

func TestConfig_AuthorizationHeader(t *testing.T) {
	cfg := &Config{APIKey: "key", APISecret: "secret"}
	now := time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC)

	header, err := cfg.AuthorizationHeader(now)
	require.NoError(t, err)
	m := authPattern.FindStringSubmatch(header)
	require.NotNil(t, m, header)
	assert.Equal(t, "2025-03-02T01:00:00Z", m[1])
	assert.Equal(t, cfg.Sign(m[1], m[2]), m[3])

	// fresh salt per request
	other, _ := cfg.AuthorizationHeader(now)
	assert.NotEqual(t, header, other)
}

func TestClient_SendMany(t *testing.T) {
	var got sendManyRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages/v4/send-many", r.URL.Path)
		assert.Regexp(t, authPattern, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(sendManyResponse{
			GroupID: "G4V2025",
			Results: []messageResult{
				{To: "01012345678", StatusCode: "2000"},
				{To: "01087654321", StatusCode: "3059", StatusMessage: "invalid number"},
			},
		})
	})

	res, err := c.SendMany(context.Background(), []messagingapp.OutboundMessage{
		{To: "010-1234-5678", Text: "hello", Type: messaging.TypeSMS300},
		{To: "01087654321", Text: "hello", Type: messaging.TypeMMS, ImageID: "ST01"},
	})
	require.NoError(t, err)

	assert.Equal(t, "G4V2025", res.GroupID)
	success, fail := res.Counts()
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, fail)
	assert.Equal(t, "invalid number", res.Results[1].Message)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "01012345678", got.Messages[0].To)
	assert.Equal(t, "0312150013", got.Messages[0].From)
	assert.Equal(t, "LMS", got.Messages[0].Type)
	assert.Equal(t, "MMS", got.Messages[1].Type)
	assert.Equal(t, "ST01", got.Messages[1].ImageID)
}

func TestClient_SendMany_NoResultsMeansAccepted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"groupId":"G1"}`))
	})
	res, err := c.SendMany(context.Background(), []messagingapp.OutboundMessage{{To: "01012345678", Text: "x", Type: messaging.TypeSMS}})
	require.NoError(t, err)
	success, fail := res.Counts()
	assert.Equal(t, 1, success)
	assert.Equal(t, 0, fail)
}

func TestClient_SendMany_Errors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorCode":"SignatureDoesNotMatch","errorMessage":"bad signature"}`))
	})

	_, err := c.SendMany(context.Background(), []messagingapp.OutboundMessage{{To: "01012345678", Text: "x"}})
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "SignatureDoesNotMatch")

	_, err = c.SendMany(context.Background(), make([]messagingapp.OutboundMessage, messaging.MaxChunk+1))
	assert.ErrorIs(t, err, ErrTooMany)
}

func TestClient_SendKakao(t *testing.T) {
	var got sendManyRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"groupId":"G2","results":[{"to":"01012345678","statusCode":"2000"},{"to":"01087654321","statusCode":"2000"}]}`))
	})

	_, err := c.SendKakao(context.Background(), []messagingapp.KakaoMessage{
		{To: "01012345678", Text: "봄 시타 이벤트", ButtonURL: "https://win.masgolf.co.kr/event"},
		{To: "01087654321", TemplateID: "TPL01", Variables: map[string]string{"#{고객명}": "김영수"}},
	})
	require.NoError(t, err)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "CTA", got.Messages[0].Type)
	assert.True(t, got.Messages[0].KakaoOptions.DisableSMS)
	assert.Equal(t, "KA01PF", got.Messages[0].KakaoOptions.PFID)
	require.Len(t, got.Messages[0].KakaoOptions.Buttons, 1)
	assert.Equal(t, "ATA", got.Messages[1].Type)
	assert.Equal(t, "김영수", got.Messages[1].KakaoOptions.Variables["#{고객명}"])
	assert.Empty(t, got.Messages[1].KakaoOptions.Buttons)
}

func TestClient_SendKakao_RequiresPFID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	c.config.PFID = ""
	_, err := c.SendKakao(context.Background(), []messagingapp.KakaoMessage{{To: "01012345678", Text: "x"}})
	assert.ErrorIs(t, err, ErrNoKakaoPFID)
}

func TestClient_UploadImage(t *testing.T) {
	image := []byte("\x89PNG fake")
	var uploaded uploadRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/images/"):
			_, _ = w.Write(image)
		case r.URL.Path == "/storage/v1/files":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&uploaded))
			_, _ = w.Write([]byte(`{"fileId":"ST01FZ"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	id, err := c.UploadImage(context.Background(), c.config.BaseURL+"/images/spring.png?v=2")
	require.NoError(t, err)
	assert.Equal(t, "ST01FZ", id)
	assert.Equal(t, "MMS", uploaded.Type)
	assert.Equal(t, "spring.png", uploaded.Name)
	decoded, _ := base64.StdEncoding.DecodeString(uploaded.File)
	assert.Equal(t, image, decoded)
}

func TestClient_UploadImage_TooLarge(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, maxImageSize+10))
	})
	_, err := c.UploadImage(context.Background(), c.config.BaseURL+"/images/big.jpg")
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
