package service

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// FacetOptions 필터 UI에 표시할 선택지 묶음
type FacetOptions struct {
	Branches    []string `json:"branches"`
	Offices     []string `json:"offices"`
	Salespeople []string `json:"salespeople"`
}

// FacetService 조인된 데이터에서 지사/지점/담당자 필터 선택지를 뽑고,
// 상위 필터가 바뀔 때 하위 선택 상태를 정리한다.
// 의존 체인은 지사 → 지점 → 담당자 한 방향이다.
type FacetService interface {
	BranchOptions(records []model.StoreRecord) []string
	OfficeOptions(records []model.StoreRecord, branch string) []string
	SalespersonOptions(records []model.StoreRecord, branch, office string) []string
	// Derive 현재 필터 상태 기준 선택지 일괄 계산
	Derive(records []model.StoreRecord, state model.FilterState) FacetOptions
	// ReconcileSelection 이전 다중 선택에서 더 이상 유효하지 않은 값을
	// 걷어낸다. 순서는 이전 선택 순서를 유지하고, 새 값은 추가하지 않는다.
	ReconcileSelection(previous, options []string) []string
	// ApplyFilter 현재 설정된 모든 필터를 통과하는 레코드만 반환
	ApplyFilter(records []model.StoreRecord, state model.FilterState) []model.StoreRecord
	// ChangeBranch 지사 변경: 지점 선택은 버리고 담당자 선택은 재조정
	ChangeBranch(records []model.StoreRecord, state model.FilterState, branch string) model.FilterState
	// ChangeOffice 지점 변경: 담당자 선택 재조정
	ChangeOffice(records []model.StoreRecord, state model.FilterState, office string) model.FilterState
}

type facetService struct{}

func NewFacetService() FacetService {
	return &facetService{}
}

func normalizeValue(s string) string {
	return strings.TrimSpace(s)
}

// sortOptions 한국어 로케일 기준 정렬. collate.Collator는 동시 사용이
// 안전하지 않아 호출마다 만든다.
func sortOptions(values []string) {
	c := collate.New(language.Korean)
	c.SortStrings(values)
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sortOptions(out)
	return out
}

func (s *facetService) BranchOptions(records []model.StoreRecord) []string {
	values := make([]string, 0, len(records))
	for _, r := range records {
		if r.SalesInfo == nil {
			continue
		}
		values = append(values, normalizeValue(r.SalesInfo.Branch))
	}
	return dedupeSorted(values)
}

func (s *facetService) OfficeOptions(records []model.StoreRecord, branch string) []string {
	branch = normalizeValue(branch)
	values := make([]string, 0, len(records))
	for _, r := range records {
		if r.SalesInfo == nil {
			continue
		}
		if branch != "" && normalizeValue(r.SalesInfo.Branch) != branch {
			continue
		}
		values = append(values, normalizeValue(r.SalesInfo.Office))
	}
	return dedupeSorted(values)
}

func (s *facetService) SalespersonOptions(records []model.StoreRecord, branch, office string) []string {
	branch = normalizeValue(branch)
	office = normalizeValue(office)

	values := make([]string, 0, len(records))
	for _, r := range records {
		// 지사/지점 필터는 salesInfo 기준, 담당자 이름은 최상위 필드 기준
		if branch != "" && (r.SalesInfo == nil || normalizeValue(r.SalesInfo.Branch) != branch) {
			continue
		}
		if office != "" && (r.SalesInfo == nil || normalizeValue(r.SalesInfo.Office) != office) {
			continue
		}
		values = append(values, normalizeValue(r.SalespersonName))
	}
	return dedupeSorted(values)
}

func (s *facetService) Derive(records []model.StoreRecord, state model.FilterState) FacetOptions {
	opts := FacetOptions{
		Branches:    s.BranchOptions(records),
		Offices:     s.OfficeOptions(records, state.Branch),
		Salespeople: s.SalespersonOptions(records, state.Branch, state.Office),
	}

	logger.Debug("Derived filter facets", map[string]interface{}{
		"branches":    len(opts.Branches),
		"offices":     len(opts.Offices),
		"salespeople": len(opts.Salespeople),
	})
	return opts
}

func (s *facetService) ReconcileSelection(previous, options []string) []string {
	if len(previous) == 0 {
		return nil
	}

	valid := make(map[string]struct{}, len(options))
	for _, o := range options {
		valid[o] = struct{}{}
	}

	var retained []string
	for _, p := range previous {
		if _, ok := valid[p]; ok {
			retained = append(retained, p)
		}
	}

	if dropped := len(previous) - len(retained); dropped > 0 {
		logger.Debug("Dropped stale salesperson selections", map[string]interface{}{
			"dropped":  dropped,
			"retained": len(retained),
		})
	}
	return retained
}

func (s *facetService) ApplyFilter(records []model.StoreRecord, state model.FilterState) []model.StoreRecord {
	branch := normalizeValue(state.Branch)
	office := normalizeValue(state.Office)

	selected := make(map[string]struct{}, len(state.Salespeople))
	for _, name := range state.Salespeople {
		selected[normalizeValue(name)] = struct{}{}
	}

	out := make([]model.StoreRecord, 0, len(records))
	for _, r := range records {
		if branch != "" && (r.SalesInfo == nil || normalizeValue(r.SalesInfo.Branch) != branch) {
			continue
		}
		if office != "" && (r.SalesInfo == nil || normalizeValue(r.SalesInfo.Office) != office) {
			continue
		}
		if len(selected) > 0 {
			if _, ok := selected[normalizeValue(r.SalespersonName)]; !ok {
				continue
			}
		}
		out = append(out, r.Clone())
	}
	return out
}

func (s *facetService) ChangeBranch(records []model.StoreRecord, state model.FilterState, branch string) model.FilterState {
	next := state.Clone()
	next.Branch = normalizeValue(branch)
	// 지사가 바뀌면 지점 선택은 유지하지 않는다
	next.Office = ""
	next.Salespeople = s.ReconcileSelection(
		next.Salespeople,
		s.SalespersonOptions(records, next.Branch, ""),
	)
	return next
}

func (s *facetService) ChangeOffice(records []model.StoreRecord, state model.FilterState, office string) model.FilterState {
	next := state.Clone()
	next.Office = normalizeValue(office)
	next.Salespeople = s.ReconcileSelection(
		next.Salespeople,
		s.SalespersonOptions(records, next.Branch, next.Office),
	)
	return next
}
