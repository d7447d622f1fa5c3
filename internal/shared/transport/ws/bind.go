package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// Bind 把入站帧的字段表解码到目标结构体（按 json tag，弱类型：数字字符串也能转）。
func Bind(req *WsMsgReq, dst any) error {
	if req == nil || req.Payload == nil {
		return errors.New("ws request payload is nil")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Payload)
}
