package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// Client 지도를 보고 있는 뷰어 세션 하나
type Client struct {
	Hub        *Hub
	Conn       *Conn
	SessionID  string
	OperatorID string // 익명 뷰어는 빈 문자열
	Send       chan []byte
}

// Hub 뷰어 세션 관리자. 담당자 수정이 일어나면 접속 중인 모든
// 세션에 이벤트를 밀어넣어 다른 브라우저도 지도를 갱신하게 한다.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run Hub 실행 (고루틴으로 호출)
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Viewer session connected", map[string]interface{}{
				"session_id":  client.SessionID,
				"operator_id": client.OperatorID,
				"sessions":    total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Viewer session disconnected", map[string]interface{}{
				"session_id": client.SessionID,
				"sessions":   total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// 느린 세션은 밀린 메시지를 버린다
					logger.Warn("Viewer session send buffer full, dropping event", map[string]interface{}{
						"session_id": client.SessionID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// event 서버 → 뷰어 푸시 메시지 포맷
type event struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

func (h *Hub) broadcastEvent(eventType string, payload interface{}) {
	data, err := json.Marshal(event{
		Type:      eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		logger.Error("Failed to marshal broadcast event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast queue full, dropping event", map[string]interface{}{
			"type": eventType,
		})
	}
}

// NotifyEdit 담당자 수정 완료를 모든 세션에 알린다 (EditService 훅)
func (h *Hub) NotifyEdit(record model.StoreRecord, edit model.EditRecord) {
	h.broadcastEvent("salesperson_updated", map[string]interface{}{
		"storeId":     edit.StoreID,
		"updatedItem": record,
		"editRecord":  edit,
	})
}

// SessionCount 현재 접속 세션 수
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
