package identity

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/superae99/salesmap-backend/internal/app/model"
)

// Resolver 거래처 파생 ID 생성기.
// 조인은 담당 사번으로 하지만, 수정 대상 조회·수정 기록 연결·UI 키는
// 전부 이 ID를 쓴다. 알고리즘이 갈라지면 기존 기록과 연결이 끊어지므로
// 구현은 반드시 한 곳에만 둔다.
type Resolver interface {
	StoreID(record *model.StoreRecord) string
}

// HashResolver 기존 배포 데이터와 호환되는 레거시 ID 생성기.
//   - 사업자번호가 있으면 (문자열 "null" 제외) "BIZ_" + 사업자번호
//   - 없으면 거래처명과 주소를 "_"로 이어 붙인 문자열의 32비트 롤링 해시로
//     "STORE_" + |hash|
//
// 해시는 충돌이 이론적으로 가능하지만 (다른 거래처명+주소 조합이 같은 값을
// 낼 수 있음) 기존 데이터의 ID를 그대로 유지하기 위해 감수한다.
// 무충돌 체계(예: 수집 시점 UUID 부여)로 바꿀 때는 이 타입만 교체하면 된다.
type HashResolver struct{}

func NewHashResolver() Resolver {
	return HashResolver{}
}

func (HashResolver) StoreID(record *model.StoreRecord) string {
	bizNo := record.BusinessNumber.Norm()
	if bizNo != "" && bizNo != "null" {
		return "BIZ_" + record.BusinessNumber.String()
	}

	name := strings.TrimSpace(record.Name)
	address := strings.TrimSpace(record.Address)
	return "STORE_" + strconv.FormatInt(abs32(rollingHash(name+"_"+address)), 10)
}

// rollingHash 기존 자바스크립트 구현과 비트 단위로 동일한 해시.
// charCodeAt은 UTF-16 코드 유닛을 반환하므로 룬이 아니라 UTF-16 단위로 돈다.
// 각 단계마다 hash = (hash<<5) - hash + unit 을 32비트로 절단한다.
func rollingHash(s string) int32 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = (hash << 5) - hash + int32(unit)
	}
	return hash
}

func abs32(n int32) int64 {
	v := int64(n)
	if v < 0 {
		return -v
	}
	return v
}
