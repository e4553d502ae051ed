// Файл: internal/services/order_submitter.go
package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"intake-bridge/internal/dto"
	"intake-bridge/pkg/config"
	apperrors "intake-bridge/pkg/errors"
	"intake-bridge/pkg/utils"
)

const requestTimeout = 30 * time.Second

// createPayload — тело запроса создания заказа (POST /hs).
type createPayload struct {
	Config createConfig       `json:"config"`
	Params *dto.OrderEnvelope `json:"params"`
	Token  string             `json:"token"`
}

type createConfig struct {
	ClientPath string `json:"clientPath"`
}

// lookupPayload — тело запроса номера заявки (POST /ws).
// Учетные данные оператора лежат в config, а не в заголовках:
// так устроен прокси 1С.
type lookupPayload struct {
	Config lookupConfig `json:"config"`
	Params lookupParams `json:"params"`
	Token  string       `json:"token"`
}

type lookupConfig struct {
	ClientPath map[string]string `json:"clientPath"`
	Login      string            `json:"login"`
	Password   string            `json:"password"`
}

type lookupParams struct {
	Identifier string `json:"Идентификатор"`
	ChatID     string `json:"ИДЧата"`
}

// OrderSubmitter отправляет заказ в прокси 1С в два этапа: создание заказа
// и затем запрос номера созданной заявки. Провал первого этапа фатален для
// отправки, провал второго — нет: заказ уже создан.
type OrderSubmitter struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewOrderSubmitter(cfg *config.Config, logger *zap.Logger) *OrderSubmitter {
	return &OrderSubmitter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				// Прокси 1С живет на самоподписанном сертификате.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		logger: logger.Named("order_submitter"),
	}
}

// Submit выполняет оба этапа. Ошибка при созданном заказе (Created=true в
// результате) означает проблему конфигурации маршрутизации, а не провал
// создания.
func (s *OrderSubmitter) Submit(ctx context.Context, orderID string, order *dto.OrderEnvelope) (*dto.SubmissionResult, error) {
	if err := s.createOrder(ctx, orderID, order); err != nil {
		return nil, err
	}

	result := &dto.SubmissionResult{OrderID: orderID, Created: true}

	number, err := s.lookupTicketNumber(ctx, order)
	if err != nil {
		return result, err
	}

	if number == "" {
		result.Warning = "заявка создана, но номер вернуть не удалось"
		s.logger.Warn("Заявка создана, но номер вернуть не удалось (проверьте логи 1С)",
			zap.String("order_id", orderID),
		)
		return result, nil
	}

	result.TicketNumber = number
	s.logger.Info("Номер новой заявки получен",
		zap.String("order_id", orderID),
		zap.String("ticket_number", number),
	)
	return result, nil
}

// createOrder — первый этап: POST заказа на /hs. Перед отправкой полный
// payload безусловно сохраняется в файл order_sent_<id>.json — он нужен
// для разбора даже (и особенно) когда отправка провалилась.
func (s *OrderSubmitter) createOrder(ctx context.Context, orderID string, order *dto.OrderEnvelope) error {
	payload := createPayload{
		Config: createConfig{ClientPath: s.cfg.Proxy.OrderPath},
		Params: order,
		Token:  s.cfg.Auth.Token,
	}

	s.dumpPayload(orderID, payload)

	status, body, err := s.post(ctx, "/hs", payload)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrOrderNotSent, err)
	}
	if status >= 400 {
		s.logResponseBody("Тело ответа 1С", body)
		return fmt.Errorf("%w: %w", apperrors.ErrOrderNotSent, apperrors.NewBackOfficeError(status, string(body)))
	}

	s.logger.Info("Заказ передан в 1С",
		zap.String("order_id", orderID),
		zap.Int("status", status),
	)
	return nil
}

// lookupTicketNumber — второй этап: запрос номера заявки на /ws по пути
// региона. Сетевые и HTTP-ошибки здесь не фатальны; фатально только
// отсутствие пути для вычисленного региона — это ошибка конфигурации.
func (s *OrderSubmitter) lookupTicketNumber(ctx context.Context, order *dto.OrderEnvelope) (string, error) {
	cp := RouteRegion(&order.Order)
	wsPath, ok := s.cfg.Proxy.WsPaths[cp]
	if !ok || wsPath == "" {
		return "", fmt.Errorf("%w: cp=%q", apperrors.ErrUnknownRegionPath, cp)
	}

	partnerID := utils.PhoneDigits(order.Order.Client.PhoneIncoming)
	if partnerID == "" {
		partnerID = "0"
	}

	payload := lookupPayload{
		Config: lookupConfig{
			ClientPath: map[string]string{cp: wsPath},
			Login:      s.cfg.Auth.Login,
			Password:   s.cfg.Auth.Password,
		},
		Params: lookupParams{
			Identifier: "new_bid_number",
			ChatID:     partnerID,
		},
		Token: s.cfg.Auth.Token,
	}

	s.logger.Debug("Запрос номера заявки",
		zap.String("cp", cp),
		zap.String("client_path", wsPath),
		zap.String("chat_id", partnerID),
	)

	status, body, err := s.post(ctx, "/ws", payload)
	if err != nil {
		s.logger.Warn("Заявка создана, но не удалось узнать номер", zap.Error(err))
		return "", nil
	}
	if status >= 400 {
		s.logResponseBody("Тело ответа /ws", body)
		s.logger.Warn("Заявка создана, но /ws вернул ошибку", zap.Int("status", status))
		return "", nil
	}

	return extractTicketNumber(body, s.logger), nil
}

// extractTicketNumber ищет в ответе /ws первый элемент с полем id.
// Ответ просматривается терпимо к форме: result — словарь произвольных
// ключей со списками записей, id может быть строкой или числом.
func extractTicketNumber(body []byte, logger *zap.Logger) string {
	var wsResp struct {
		Result map[string][]map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &wsResp); err != nil {
		logger.Warn("Не удалось разобрать ответ /ws", zap.Error(err))
		return ""
	}

	for _, items := range wsResp.Result {
		for _, item := range items {
			raw, ok := item["id"]
			if !ok {
				continue
			}
			if id := decodeID(raw); id != "" {
				return id
			}
		}
	}
	return ""
}

func decodeID(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return ""
}

func (s *OrderSubmitter) post(ctx context.Context, endpoint string, payload interface{}) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("ошибка сериализации запроса для '%s': %w", endpoint, err)
	}

	url := strings.TrimRight(s.cfg.Proxy.ProxyURL, "/") + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("ошибка создания POST-запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("ошибка выполнения POST-запроса для '%s': %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("ошибка чтения ответа для '%s': %w", endpoint, err)
	}
	return resp.StatusCode, body, nil
}

// dumpPayload пишет отладочную копию исходящего запроса. Ошибка записи не
// должна помешать отправке заказа, поэтому только предупреждение в лог.
func (s *OrderSubmitter) dumpPayload(orderID string, payload createPayload) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		s.logger.Warn("Не удалось сериализовать отладочную копию заказа", zap.Error(err))
		return
	}

	path := filepath.Join(s.cfg.Storage.DumpDir, fmt.Sprintf("order_sent_%s.json", orderID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn("Не удалось сохранить отладочную копию заказа",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// logResponseBody печатает тело ответа: как JSON, если это JSON,
// иначе как есть.
func (s *OrderSubmitter) logResponseBody(title string, body []byte) {
	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		s.logger.Error(title, zap.String("body", pretty.String()))
		return
	}
	s.logger.Error(title, zap.String("body", string(body)))
}
