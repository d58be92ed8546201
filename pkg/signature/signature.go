package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// 署名付きCookie値のフォーマット: "{value}.{base64(HMAC-SHA256(secret, value))}"
// express-session互換のため、base64のパディング文字は取り除く

// Sign は値にHMAC-SHA256署名を付与します
func Sign(value, secret string) string {
	return value + "." + digest(value, secret)
}

// Unsign は署名付き値を検証し、元の値を返します
// 署名が一致しない場合はok=falseを返します
func Unsign(signed, secret string) (string, bool) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 {
		return "", false
	}

	value := signed[:idx]

	// タイミング攻撃を防ぐため固定時間比較を使用
	expected := Sign(value, secret)
	if subtleEqual(signed, expected) {
		return value, true
	}
	return "", false
}

// digest は値のHMAC-SHA256ダイジェストを計算します
func digest(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	sum := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return strings.TrimRight(sum, "=")
}

// subtleEqual は固定時間で文字列を比較します
func subtleEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
