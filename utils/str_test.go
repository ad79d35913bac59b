package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func gbkBytes(t *testing.T, s string) string {
	t.Helper()
	d, err := simplifiedchinese.GBK.NewEncoder().String(s)
	require.NoError(t, err)
	return d
}

func TestStrToFloat(t *testing.T) {
	f, ok := StrToFloat(" 6.5 ")
	assert.True(t, ok)
	assert.Equal(t, 6.5, f)
	_, ok = StrToFloat("n/a")
	assert.False(t, ok)
}

func TestFloatToStr(t *testing.T) {
	assert.Equal(t, "6.5", FloatToStr(6.5))
	assert.Equal(t, "100", FloatToStr(100))
}

func TestB2SAndS2B(t *testing.T) {
	s := "hello"
	assert.Equal(t, []byte(s), S2B(s))
	assert.Equal(t, s, B2S([]byte(s)))
}

func TestContainsAll(t *testing.T) {
	group := []string{"ph", "clay", "sand"}
	assert.True(t, ContainsAll(group, []string{"clay", "ph"}))
	assert.True(t, ContainsAll(group, nil))
	assert.False(t, ContainsAll(group, []string{"silt"}))
}

func TestGbkStrToUtf8(t *testing.T) {
	src := "土壤属性"
	back, err := GbkStrToUtf8(gbkBytes(t, src))
	assert.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestPurifyForUtf8(t *testing.T) {
	assert.Equal(t, "ab", PurifyForUtf8("a\x00b"))
	assert.Equal(t, "ok", PurifyForUtf8("ok"))
}

func TestEnsureUtf8(t *testing.T) {
	// 合法UTF-8原样放行
	assert.Equal(t, "土壤", EnsureUtf8("土壤"))
	// GBK字节解码还原
	assert.Equal(t, "耕地", EnsureUtf8(gbkBytes(t, "耕地")))
	// 既非UTF-8也非GBK时剔除坏字节
	assert.Equal(t, "ab", EnsureUtf8("a\xffb"))
}
