package model

// FieldChange 수정 전/후 값 쌍
type FieldChange struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// EditChanges 담당자 수정으로 바뀐 필드들.
// JSON 키는 기존 클라이언트가 localStorage에 남긴 기록과 동일하게 유지한다.
type EditChanges struct {
	EmployeeNumber FieldChange `json:"담당사번"`
	Salesperson    FieldChange `json:"담당영업사원"`
}

// EditRecord 수정 기록 1건. 생성 후 절대 변경하지 않는다.
// storeCode는 과거 클라이언트가 쓰던 필드명이고 storeId가 현재 필드명.
// 필드명 변경 과도기의 기록을 모두 조회할 수 있도록 둘 다 유지한다.
type EditRecord struct {
	ID             string      `json:"id"`
	Timestamp      string      `json:"timestamp"`
	StoreID        string      `json:"storeId"`
	StoreCode      string      `json:"storeCode,omitempty"`
	StoreName      string      `json:"storeName"`
	BusinessNumber string      `json:"businessNumber,omitempty"`
	Changes        EditChanges `json:"changes"`
	Reason         string      `json:"reason,omitempty"`
	Note           string      `json:"note,omitempty"`
	User           string      `json:"user,omitempty"`
}

// MatchesStore 신/구 필드명 어느 쪽이든 거래처 ID가 일치하면 true
func (r *EditRecord) MatchesStore(storeID string) bool {
	return r.StoreID == storeID || r.StoreCode == storeID
}
