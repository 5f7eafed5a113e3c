package model

// StoreRecord 거래처 1건. 기존에 축적된 JSON 파일과 호환되도록
// 한글 필드 키를 그대로 유지한다.
//
// salesInfo는 담당 사번으로 로스터와 조인된 결과가 붙는 자리이며,
// 조인 전 원본 파일에는 없을 수도 있고 (수정 후 저장된 파일에는) 있을 수도 있다.
type StoreRecord struct {
	Name            string             `json:"거래처명"`
	BusinessNumber  LooseString        `json:"사업자번호"`
	Address         string             `json:"기본주소(사업자기준)"`
	RTMChannel      string             `json:"RTM 채널,omitempty"`
	Latitude        LooseString        `json:"위도"`
	Longitude       LooseString        `json:"경도"`
	EmployeeNumber  LooseString        `json:"담당 사번"`
	SalespersonName string             `json:"담당 영업사원"`
	LastModifiedAt  string             `json:"최종수정일시,omitempty"`
	SalesInfo       *SalespersonRecord `json:"salesInfo,omitempty"`
}

// HasValidCoordinates 위도/경도가 모두 존재하고 유한한 수로 파싱되는지.
// 지도 작업 대상(geo-enabled working set) 포함 조건이며 조인과는 별개 단계다.
func (s *StoreRecord) HasValidCoordinates() bool {
	if _, ok := s.Latitude.Float(); !ok {
		return false
	}
	if _, ok := s.Longitude.Float(); !ok {
		return false
	}
	return true
}

// Clone 레코드 복사본을 만든다. salesInfo도 별도 복사해서
// 프로젝션 간에 포인터가 공유되지 않도록 한다.
func (s StoreRecord) Clone() StoreRecord {
	out := s
	if s.SalesInfo != nil {
		info := *s.SalesInfo
		out.SalesInfo = &info
	}
	return out
}
