package utils

import (
	"io"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func StrToFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

func FloatToStr(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func B2S(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

func S2B(s string) []byte {
	const MaxInt32 = 1<<31 - 1
	return (*[MaxInt32]byte)(unsafe.Pointer((*reflect.StringHeader)(
		unsafe.Pointer(&s)).Data))[: len(s)&MaxInt32 : len(s)&MaxInt32]
}

func ContainsAll(group, sub []string) bool {
out:
	for _, s := range sub {
		for _, a := range group {
			if a == s {
				continue out
			}
		}
		return false
	}
	return true
}

// GBK string 转 UTF-8
func GbkStrToUtf8(s string) (d string, e error) {
	reader := transform.NewReader(strings.NewReader(s), simplifiedchinese.GBK.NewDecoder())
	t, e := io.ReadAll(reader)
	if e != nil {
		return
	}
	d = B2S(t)
	return
}

func PurifyForUtf8(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}

// 字段编码兜底：非法UTF-8先按GBK解码，解不干净则剔除坏字节。
// GBK解码器对非法字节吐U+FFFD而不报错，须据此判定解码失败
func EnsureUtf8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	if d, e := GbkStrToUtf8(s); e == nil && !strings.ContainsRune(d, utf8.RuneError) {
		return d
	}
	return PurifyForUtf8(s)
}
