package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"intake-bridge/internal/dto"
	"intake-bridge/pkg/config"
	apperrors "intake-bridge/pkg/errors"
)

// proxyStub — заглушка прокси 1С: отдельные ответы для /hs и /ws
// и учет обращений к /ws.
type proxyStub struct {
	hsStatus   int
	wsStatus   int
	wsBody     string
	wsCalled   bool
	wsLastBody []byte
}

func (p *proxyStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/hs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(p.hsStatus)
		w.Write([]byte(`{"status":"hs"}`))
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		p.wsCalled = true
		p.wsLastBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(p.wsStatus)
		w.Write([]byte(p.wsBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSubmitter(t *testing.T, proxyURL string) *OrderSubmitter {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{Token: "токен", Login: "оператор", Password: "пароль"},
		Proxy: config.ProxyConfig{
			ProxyURL:  proxyURL,
			OrderPath: "orders/main",
			WsPaths: map[string]string{
				"spb": "ws/spb",
				"msk": "ws/msk",
				"reg": "ws/reg",
			},
		},
		Storage: config.StorageConfig{DumpDir: t.TempDir()},
	}
	return NewOrderSubmitter(cfg, zap.NewNop())
}

func testOrder(city string) *dto.OrderEnvelope {
	env := &dto.OrderEnvelope{Order: dto.Order{
		Services:  []dto.OrderService{{ServiceID: "ремонт"}},
		DesiredDt: "2025-06-18T00:00Z",
	}}
	env.Order.Client.PhoneIncoming = "+7 911 222-33-44"
	if city != "" {
		env.Order.Address.NameComponents = []dto.NameComponent{
			{Kind: dto.KindLocality, Name: city},
		}
	}
	return env
}

func TestSubmit_Success(t *testing.T) {
	stub := &proxyStub{
		hsStatus: http.StatusOK,
		wsStatus: http.StatusOK,
		wsBody:   `{"result":{"ключ":[{"id":"З-00123"}]}}`,
	}
	submitter := newTestSubmitter(t, stub.server(t).URL)

	result, err := submitter.Submit(context.Background(), "20250618120000123", testOrder("Москва"))
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "З-00123", result.TicketNumber)
	assert.True(t, stub.wsCalled)

	// /ws получил путь московского региона и цифры телефона как ИДЧата.
	assert.Contains(t, string(stub.wsLastBody), `"msk":"ws/msk"`)
	assert.Contains(t, string(stub.wsLastBody), `"ИДЧата":"79112223344"`)
	assert.Contains(t, string(stub.wsLastBody), `"Идентификатор":"new_bid_number"`)
}

func TestSubmit_CreateFailureStopsPipeline(t *testing.T) {
	stub := &proxyStub{hsStatus: http.StatusInternalServerError}
	submitter := newTestSubmitter(t, stub.server(t).URL)

	result, err := submitter.Submit(context.Background(), "20250618120000123", testOrder("Москва"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotSent)

	var boErr *apperrors.BackOfficeError
	require.True(t, errors.As(err, &boErr))
	assert.Equal(t, http.StatusInternalServerError, boErr.StatusCode)

	assert.Nil(t, result)
	assert.False(t, stub.wsCalled, "/ws не должен вызываться после провала /hs")
}

func TestSubmit_DumpWrittenEvenOnFailure(t *testing.T) {
	stub := &proxyStub{hsStatus: http.StatusBadRequest}
	submitter := newTestSubmitter(t, stub.server(t).URL)

	_, err := submitter.Submit(context.Background(), "20250618120000123", testOrder("Москва"))
	require.Error(t, err)

	dumpPath := filepath.Join(submitter.cfg.Storage.DumpDir, "order_sent_20250618120000123.json")
	data, err := os.ReadFile(dumpPath)
	require.NoError(t, err, "отладочная копия пишется до отправки, безусловно")

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Contains(t, payload, "config")
	assert.Contains(t, payload, "params")
	assert.Contains(t, payload, "token")
}

func TestSubmit_LookupFailureIsSoft(t *testing.T) {
	cases := []struct {
		name     string
		wsStatus int
		wsBody   string
	}{
		{"нет записей с id", http.StatusOK, `{"result":{"ключ":[{"число":1}],"пусто":[]}}`},
		{"пустой result", http.StatusOK, `{"result":{}}`},
		{"битый JSON", http.StatusOK, `не json`},
		{"ошибка /ws", http.StatusBadGateway, `{"error":"шлюз"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &proxyStub{hsStatus: http.StatusOK, wsStatus: tc.wsStatus, wsBody: tc.wsBody}
			submitter := newTestSubmitter(t, stub.server(t).URL)

			result, err := submitter.Submit(context.Background(), "20250618120000123", testOrder("Воронеж"))
			require.NoError(t, err, "заказ уже создан, сбой второго этапа не ошибка")

			assert.True(t, result.Created)
			assert.Empty(t, result.TicketNumber)
			assert.NotEmpty(t, result.Warning)
		})
	}
}

func TestSubmit_UnknownRegionIsFatal(t *testing.T) {
	stub := &proxyStub{hsStatus: http.StatusOK, wsStatus: http.StatusOK, wsBody: `{"result":{}}`}
	submitter := newTestSubmitter(t, stub.server(t).URL)
	delete(submitter.cfg.Proxy.WsPaths, "reg")

	result, err := submitter.Submit(context.Background(), "20250618120000123", testOrder("Воронеж"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownRegionPath)

	// Заказ при этом создан — это ошибка конфигурации, а не отправки.
	require.NotNil(t, result)
	assert.True(t, result.Created)
	assert.False(t, stub.wsCalled)
}

func TestSubmit_NumericTicketID(t *testing.T) {
	stub := &proxyStub{
		hsStatus: http.StatusOK,
		wsStatus: http.StatusOK,
		wsBody:   `{"result":{"ключ":[{"id":987654}]}}`,
	}
	submitter := newTestSubmitter(t, stub.server(t).URL)

	result, err := submitter.Submit(context.Background(), "20250618120000123", testOrder("Москва"))
	require.NoError(t, err)
	assert.Equal(t, "987654", result.TicketNumber)
}

func TestSubmit_DefaultPartnerID(t *testing.T) {
	stub := &proxyStub{hsStatus: http.StatusOK, wsStatus: http.StatusOK, wsBody: `{"result":{}}`}
	submitter := newTestSubmitter(t, stub.server(t).URL)

	order := testOrder("Москва")
	order.Order.Client.PhoneIncoming = ""

	_, err := submitter.Submit(context.Background(), "20250618120000", order)
	require.NoError(t, err)
	assert.Contains(t, string(stub.wsLastBody), `"ИДЧата":"0"`)
}
