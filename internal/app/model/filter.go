package model

// FilterState 현재 선택된 필터 값 묶음.
// 원본은 모듈 전역 변수로 들고 있었지만 여기서는 명시적인 값 객체로
// 핸들러에 전달하고 반환받는다. JSON 키는 기존 사용자 설정
// (salesMapPreferences)과 호환된다.
type FilterState struct {
	Branch      string   `json:"selectedBranch"`
	Office      string   `json:"selectedOffice"`
	Salespeople []string `json:"selectedSalespeople"`
}

// IsEmpty 아무 필터도 선택되지 않은 상태인지
func (f FilterState) IsEmpty() bool {
	return f.Branch == "" && f.Office == "" && len(f.Salespeople) == 0
}

// Clone 독립 복사본 (Salespeople 슬라이스 공유 방지)
func (f FilterState) Clone() FilterState {
	out := f
	if f.Salespeople != nil {
		out.Salespeople = append([]string(nil), f.Salespeople...)
	}
	return out
}
