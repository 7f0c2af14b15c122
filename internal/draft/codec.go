package draft

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when decoding an action with an unknown type.
var ErrUnknownAction = errors.New("unknown action")

var actionDecoders = map[string]func([]byte) (Action, error){
	TypeSetViewportImage:           decodeAs[SetViewportImage],
	TypeRemoveViewportImage:        decodeAs[RemoveViewportImage],
	TypeSwapViewports:              decodeAs[SwapViewports],
	TypeSetViewportImagePosition:   decodeAs[SetViewportImagePosition],
	TypeSetViewportImageSize:       decodeAs[SetViewportImageSize],
	TypeIncrementViewportImageZoom: decodeAs[IncrementViewportImageZoom],
	TypeRotateImage:                decodeAs[RotateImage],
	TypeToggleOrientation:          decodeAs[ToggleOrientation],
	TypeSetOrderMessage:            decodeAs[SetOrderMessage],
	TypeAddImageSticker:            decodeAs[AddImageSticker],
	TypeSetStickerSize:             decodeAs[SetStickerSize],
	TypeSetStickerPosition:         decodeAs[SetStickerPosition],
	TypeSetStickerRotation:         decodeAs[SetStickerRotation],
	TypeSetStickerScale:            decodeAs[SetStickerScale],
	TypeRemoveSticker:              decodeAs[RemoveSticker],
	TypeBringStickerToTop:          decodeAs[BringStickerToTop],
	TypeSetRenderedImage:           decodeAs[SetRenderedImage],
	TypeSetStamp:                   decodeAs[SetStamp],
	TypeSetMap:                     decodeAs[SetMap],
	TypeSetFontID:                  decodeAs[SetFontID],
	TypeSetFontAlignment:           decodeAs[SetFontAlignment],
	TypeSetEditorTemplate:          decodeAs[SetEditorTemplate],
	TypeSetMessageImage:            decodeAs[SetMessageImage],
	TypeSetCaptionText:             decodeAs[SetCaptionText],
	TypeSetFlowMetadata:            decodeAs[SetFlowMetadata],
	TypeSwitchProductType:          decodeAs[SwitchProductType],
}

func decodeAs[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeAction decodes a JSON object whose "type" field names the action.
func DecodeAction(data []byte) (Action, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	dec, ok := actionDecoders[head.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, head.Type)
	}
	a, err := dec(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return a, nil
}

// EncodeAction encodes a as a JSON object tagged with its type.
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typ, _ := json.Marshal(a.Type())
	fields["type"] = typ
	return json.Marshal(fields)
}
