package model

import "strings"

// SalespersonRecord 영업사원 로스터 1건. 담당 사번이 조인 키.
type SalespersonRecord struct {
	EmployeeNumber LooseString `json:"담당 사번"`
	Name           string      `json:"담당 영업사원"`
	Branch         string      `json:"지사"`
	Office         string      `json:"지점"`
	AdminCode      LooseString `json:"ADM_CD,omitempty"`
}

const adminCodeWidth = 8

// NormalizedAdminCode 행정동 코드를 8자리 0-패딩 문자열로 정규화한다.
// 이미 정규화된 값을 다시 넣어도 결과가 같다 (멱등).
func (s *SalespersonRecord) NormalizedAdminCode() string {
	code := s.AdminCode.Norm()
	if code == "" {
		return strings.Repeat("0", adminCodeWidth)
	}
	if len(code) >= adminCodeWidth {
		return code
	}
	return strings.Repeat("0", adminCodeWidth-len(code)) + code
}

// NormalizeAdminCode 정규화 결과를 레코드에 반영한다.
func (s *SalespersonRecord) NormalizeAdminCode() {
	s.AdminCode = NewLooseString(s.NormalizedAdminCode())
}
