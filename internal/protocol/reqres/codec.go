package reqres

import (
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

// Codec 帧编解码器
//
// 线帧格式：uvarint 长度前缀 + 原始负载。
// 请求与应答使用同一帧格式，一个流上的每个方向各承载一帧。
type Codec struct{}

// NewCodec 创建编解码器
func NewCodec() *Codec {
	return &Codec{}
}

// WriteFrame 将负载按长度前缀帧写入流
//
// 负载超过 limit 时返回 ErrFrameTooLarge，不写出任何字节。
func (c *Codec) WriteFrame(w io.Writer, payload []byte, limit int) error {
	if len(payload) > limit {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(payload), limit)
	}

	// 写入长度前缀 (uvarint)
	buf := make([]byte, varint.MaxLenUvarint63)
	n := varint.PutUvarint(buf, uint64(len(payload)))
	if _, err := w.Write(buf[:n]); err != nil {
		return fmt.Errorf("failed to write length: %w", err)
	}

	// 写入负载
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	return nil
}

// ReadFrame 从流中读取一帧
//
// 长度前缀超过 limit 时返回 ErrFrameTooLarge，负载不被读取。
// 流在首字节前结束时错误含 io.EOF，调用方据此区分
// "对端未发送任何数据" 与帧中途截断。
func (c *Codec) ReadFrame(r io.Reader, limit int) ([]byte, error) {
	length, err := varint.ReadUvarint(&byteReader{r: r})
	if err != nil {
		return nil, fmt.Errorf("failed to read length: %w", err)
	}

	if length > uint64(limit) {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, limit)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return data, nil
}

// byteReader 包装 io.Reader 以提供 io.ByteReader
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

// ReadByte 读取单个字节
func (br *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(br.r, br.buf[:]); err != nil {
		return 0, err
	}
	return br.buf[0], nil
}
