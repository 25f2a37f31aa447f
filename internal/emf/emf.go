// Package emf handles enhanced-metafile inputs. The binary payload is never
// rewritten: it is passed through as a base64 data URI, with only the header
// inspected to derive the intrinsic size.
package emf

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

// MimeType is the media type used for metafile payloads.
const MimeType = "image/emf"

// maxPayloadSize caps a single metafile at 50MB, matching the limit the
// slide writer enforces on embedded media.
const maxPayloadSize = 50 * 1024 * 1024

// Header layout constants for the EMR_HEADER record.
const (
	headerSize       = 44
	recordTypeHeader = 1
	signatureOffset  = 40
	signature        = 0x464D4520 // " EMF"
	frameOffset      = 24
)

// Default intrinsic dimensions reported when the header frame is unusable.
const (
	defaultWidth  = 576.0
	defaultHeight = 432.0
)

// IsEMF reports whether the payload starts with a valid EMR_HEADER record.
func IsEMF(data []byte) bool {
	if len(data) < headerSize {
		return false
	}
	if binary.LittleEndian.Uint32(data[0:4]) != recordTypeHeader {
		return false
	}
	return binary.LittleEndian.Uint32(data[signatureOffset:signatureOffset+4]) == signature
}

// ProbeSize derives the intrinsic pixel size from the header's rclFrame
// rectangle, which is stored in hundredths of a millimeter. Conversion
// assumes 96 dpi. Invalid or degenerate frames fall back to 576×432.
func ProbeSize(data []byte) (float64, float64) {
	if !IsEMF(data) {
		return defaultWidth, defaultHeight
	}
	left := int32(binary.LittleEndian.Uint32(data[frameOffset : frameOffset+4]))
	top := int32(binary.LittleEndian.Uint32(data[frameOffset+4 : frameOffset+8]))
	right := int32(binary.LittleEndian.Uint32(data[frameOffset+8 : frameOffset+12]))
	bottom := int32(binary.LittleEndian.Uint32(data[frameOffset+12 : frameOffset+16]))

	w := hundredthMMToPx(right - left)
	h := hundredthMMToPx(bottom - top)
	if w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

// hundredthMMToPx converts 0.01mm units to pixels at 96 dpi.
func hundredthMMToPx(units int32) float64 {
	return float64(units) * 0.01 / 25.4 * 96.0
}

// EncodeDataURI wraps the raw metafile bytes in a base64 data URI without
// modifying them.
func EncodeDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("编码失败: 文件内容为空")
	}
	if len(data) > maxPayloadSize {
		return "", fmt.Errorf("编码失败: 文件大小 %d 字节超过上限", len(data))
	}
	return "data:" + MimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURI reverses EncodeDataURI, returning the raw bytes and the
// declared media type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("解码失败: 不是 data URI")
	}
	header, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return nil, "", fmt.Errorf("解码失败: 缺少数据段")
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, "", fmt.Errorf("解码失败: 仅支持 base64 编码")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("解码失败: %w", err)
	}
	return data, mime, nil
}
