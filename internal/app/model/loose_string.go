package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// LooseString은 레거시 JSON에서 문자열/숫자/null이 섞여 들어오는 필드를
// 처리하기 위한 커스텀 타입. 담당 사번은 수정 이후 숫자로 저장되고,
// 위도/경도와 사업자번호는 파일에 따라 문자열 또는 숫자로 존재한다.
// 원래의 표기 형태를 보존해서 load → save 왕복 시 값이 변하지 않도록 한다.
type LooseString struct {
	value   string
	valid   bool // false면 JSON null 또는 미존재
	numeric bool // 원본 토큰이 JSON 숫자였는지
}

// NewLooseString 문자열 값으로 생성
func NewLooseString(s string) LooseString {
	return LooseString{value: s, valid: true}
}

// NewLooseNumber 숫자 토큰으로 생성 (저장 시 JSON 숫자로 기록됨).
// 정수뿐 아니라 "37.4979" 같은 소수 토큰도 표기 그대로 보존한다.
func NewLooseNumber(token string) LooseString {
	return LooseString{value: token, valid: true, numeric: true}
}

// NullLooseString JSON null 값
func NullLooseString() LooseString {
	return LooseString{}
}

// UnmarshalJSON은 encoding/json.Unmarshaler 인터페이스 구현
func (s *LooseString) UnmarshalJSON(data []byte) error {
	token := strings.TrimSpace(string(data))
	if token == "null" {
		*s = LooseString{}
		return nil
	}
	if strings.HasPrefix(token, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString{value: str, valid: true}
		return nil
	}
	// JSON 숫자: 토큰 원형을 그대로 보존
	if _, err := strconv.ParseFloat(token, 64); err != nil {
		return errors.New("LooseString: unsupported JSON token")
	}
	*s = LooseString{value: token, valid: true, numeric: true}
	return nil
}

// MarshalJSON은 encoding/json.Marshaler 인터페이스 구현
func (s LooseString) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	if s.numeric {
		return []byte(s.value), nil
	}
	return json.Marshal(s.value)
}

// IsNull JSON null 여부
func (s LooseString) IsNull() bool {
	return !s.valid
}

// String 원본 표기 그대로 반환 (null이면 빈 문자열)
func (s LooseString) String() string {
	if !s.valid {
		return ""
	}
	return s.value
}

// Norm null/공백을 제거한 정규화 값 (원본의 normalizeValue와 동일한 규칙)
func (s LooseString) Norm() string {
	if !s.valid {
		return ""
	}
	return strings.TrimSpace(s.value)
}

// Float 유한한 float64 값으로 변환 가능한지 확인
func (s LooseString) Float() (float64, bool) {
	norm := s.Norm()
	if norm == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
