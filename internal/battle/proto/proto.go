// Package proto 定义对战 websocket 协议的消息。所有消息都是带 `type` 判别字段的 JSON 对象。
package proto

import (
	"encoding/json"
	"errors"
	"fmt"

	"PixelBattle/internal/battle/catalog"
	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/orders"
)

const (
	TypeHello         = "hello"
	TypeJoin          = "join"
	TypeJoined        = "joined"
	TypeState         = "state"
	TypeChat          = "chat"
	TypeRecruit       = "recruit"
	TypeRecruitResult = "recruitResult"
	TypeReset         = "reset"
	TypeReseted       = "reseted"
)

// ---- client -> server ----

type Join struct {
	Role string `json:"role"`
	Side string `json:"side"`
}

type Chat struct {
	Text string `json:"text"`
}

type Recruit struct {
	Orders map[string]int `json:"orders"`
}

type Reset struct{}

// ---- server -> client ----

type BoardConfig struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	BaseHP float64 `json:"baseHP"`
}

type Hello struct {
	Type   string                             `json:"type"`
	Unit   map[catalog.UnitKind]catalog.Stats `json:"unit"`
	State  entity.GameState                   `json:"state"`
	Config BoardConfig                        `json:"config"`
}

type Joined struct {
	Type string `json:"type"`
	// Side 对 viewer 为 null。
	Side  *entity.Side     `json:"side"`
	Role  string           `json:"role"`
	State entity.GameState `json:"state"`
}

type State struct {
	Type  string                             `json:"type"`
	State entity.GameState                   `json:"state"`
	Unit  map[catalog.UnitKind]catalog.Stats `json:"unit"`
}

// ChatResult 为空（没有识别出订单）时序列化为 {"ok":null}。
type ChatResult struct {
	Res *entity.RecruitResult
}

func (r ChatResult) MarshalJSON() ([]byte, error) {
	if r.Res == nil {
		return []byte(`{"ok":null}`), nil
	}
	return json.Marshal(*r.Res)
}

func (r *ChatResult) UnmarshalJSON(data []byte) error {
	var head struct {
		OK *bool `json:"ok"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.OK == nil {
		r.Res = nil
		return nil
	}
	res := &entity.RecruitResult{}
	if err := json.Unmarshal(data, res); err != nil {
		return err
	}
	r.Res = res
	return nil
}

type ChatBroadcast struct {
	Type   string        `json:"type"`
	From   entity.Side   `json:"from"`
	Text   string        `json:"text"`
	Parsed orders.Orders `json:"parsed"`
	Result ChatResult    `json:"result"`
}

type RecruitResult struct {
	Type  string               `json:"type"`
	Res   entity.RecruitResult `json:"res"`
	Money float64              `json:"money"`
}

type Reseted struct {
	Type  string           `json:"type"`
	State entity.GameState `json:"state"`
}

func NewHello(state entity.GameState, baseHP float64) Hello {
	return Hello{
		Type:   TypeHello,
		Unit:   catalog.All(),
		State:  state,
		Config: BoardConfig{Width: state.Width, Height: state.Height, BaseHP: baseHP},
	}
}

func NewState(state entity.GameState) State {
	return State{Type: TypeState, State: state, Unit: catalog.All()}
}

func NewJoined(role string, side *entity.Side, state entity.GameState) Joined {
	return Joined{Type: TypeJoined, Side: side, Role: role, State: state}
}

func NewChatBroadcast(from entity.Side, text string, parsed orders.Orders, res *entity.RecruitResult) ChatBroadcast {
	if parsed == nil {
		parsed = orders.Orders{}
	}
	return ChatBroadcast{Type: TypeChat, From: from, Text: text, Parsed: parsed, Result: ChatResult{Res: res}}
}

func NewRecruitResult(res entity.RecruitResult, money float64) RecruitResult {
	return RecruitResult{Type: TypeRecruitResult, Res: res, Money: money}
}

func NewReseted(state entity.GameState) Reseted {
	return Reseted{Type: TypeReseted, State: state}
}

var ErrUnknownType = errors.New("proto: unknown message type")

// DecodeServer 解码服务端下发的一帧，返回对应的消息指针（*Hello、*State ...）。
// 未知类型返回 ErrUnknownType，调用方按约定忽略即可。
func DecodeServer(data []byte) (any, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	var msg any
	switch env.Type {
	case TypeHello:
		msg = &Hello{}
	case TypeJoined:
		msg = &Joined{}
	case TypeState:
		msg = &State{}
	case TypeChat:
		msg = &ChatBroadcast{}
	case TypeRecruitResult:
		msg = &RecruitResult{}
	case TypeReseted:
		msg = &Reseted{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ClientFrame 是客户端上行帧：type 字段加上消息本身的字段。
func ClientFrame(typ string, msg any) map[string]any {
	frame := map[string]any{"type": typ}
	switch m := msg.(type) {
	case Join:
		frame["role"] = m.Role
		if m.Side != "" {
			frame["side"] = m.Side
		}
	case Chat:
		frame["text"] = m.Text
	case Recruit:
		frame["orders"] = m.Orders
	}
	return frame
}
