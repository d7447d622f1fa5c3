package proto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"PixelBattle/internal/battle/catalog"
	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/orders"
	"PixelBattle/internal/shared/serverconfig"
)

func TestChatBroadcast_未识别订单时结果为ok_null(t *testing.T) {
	data, err := json.Marshal(NewChatBroadcast(entity.SideA, "你好", nil, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"result":{"ok":null}`) || !strings.Contains(s, `"parsed":{}`) {
		t.Fatalf("json=%s", s)
	}

	msg, err := DecodeServer(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	chat, ok := msg.(*ChatBroadcast)
	if !ok || chat.Result.Res != nil || chat.From != entity.SideA {
		t.Fatalf("decoded=%+v", msg)
	}
}

func TestDecodeServer_聊天广播保留订单顺序和结果(t *testing.T) {
	parsed := orders.Parse("2盾3弓")
	res := entity.RecruitResult{OK: true, Cost: 75}
	data, _ := json.Marshal(NewChatBroadcast(entity.SideB, "2盾3弓", parsed, &res))

	msg, err := DecodeServer(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	chat := msg.(*ChatBroadcast)
	if len(chat.Parsed) != 2 || chat.Parsed[0].Kind != catalog.Shield || chat.Parsed[1].Kind != catalog.Archer {
		t.Fatalf("parsed=%v", chat.Parsed)
	}
	if chat.Result.Res == nil || !chat.Result.Res.OK || chat.Result.Res.Cost != 75 {
		t.Fatalf("result=%+v", chat.Result.Res)
	}
}

func TestDecodeServer_状态类消息(t *testing.T) {
	e := entity.NewEngine(serverconfig.DefaultGame())
	e.Spawn(entity.SideA, catalog.Archer, 2, entity.ViaOrder)

	for _, v := range []any{
		NewHello(e.Snapshot(), 2000),
		NewState(e.Snapshot()),
		NewReseted(e.Snapshot()),
		NewJoined("viewer", nil, e.Snapshot()),
	} {
		data, _ := json.Marshal(v)
		msg, err := DecodeServer(data)
		if err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		var state entity.GameState
		switch m := msg.(type) {
		case *Hello:
			state = m.State
			if m.Config.BaseHP != 2000 || len(m.Unit) != 5 {
				t.Fatalf("hello=%+v", m.Config)
			}
		case *State:
			state = m.State
		case *Reseted:
			state = m.State
		case *Joined:
			state = m.State
			if m.Side != nil || m.Role != "viewer" {
				t.Fatalf("joined=%+v", m)
			}
		default:
			t.Fatalf("unexpected %T", msg)
		}
		if len(state.Squads) != 1 || state.Squads[0].Count != 2 {
			t.Fatalf("state=%+v", state)
		}
	}
}

func TestDecodeServer_未知类型(t *testing.T) {
	_, err := DecodeServer([]byte(`{"type":"join"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err=%v", err)
	}
}

func TestJoined_viewer的side为null(t *testing.T) {
	data, _ := json.Marshal(NewJoined("viewer", nil, entity.GameState{}))
	if !strings.Contains(string(data), `"side":null`) {
		t.Fatalf("json=%s", data)
	}
}
