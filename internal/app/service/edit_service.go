package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/app/repository"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// EditInput 담당자 수정 요청
type EditInput struct {
	StoreID            string
	NewEmployeeNumber  string
	NewSalespersonName string
	Reason             string
	Note               string
	Actor              string
}

// EditResult 수정 결과. 메모리 반영은 항상 완료된 상태이며
// Persisted/PersistErr가 외부 저장 성공 여부를 알려준다.
type EditResult struct {
	UpdatedRecord model.StoreRecord
	EditRecord    model.EditRecord
	StorageRef    string
	Persisted     bool
	PersistErr    error
}

// EditNotifier 수정 완료를 다른 세션에 알리는 훅 (웹소켓 허브가 구현)
type EditNotifier interface {
	NotifyEdit(record model.StoreRecord, edit model.EditRecord)
}

// EditService 거래처 담당자 수정.
//
// 수정은 메모리 상태에 대해서는 원자적이다: 검증과 로스터 재해석을
// 모두 마친 뒤에야 워크스페이스를 건드린다. 외부 저장은 그 다음
// 단계이고, 저장이 실패해도 메모리 반영은 되돌리지 않는다.
// 원본과 동일한 낙관적 동작이며 호출자에게 실패를 알려주기만 한다.
type EditService interface {
	Edit(ctx context.Context, input EditInput) (*EditResult, error)
}

type editService struct {
	dataset  DatasetService
	history  repository.EditHistoryRepository
	notifier EditNotifier
}

// NewEditService notifier는 nil일 수 있다 (알림 없이 동작).
func NewEditService(dataset DatasetService, history repository.EditHistoryRepository, notifier EditNotifier) EditService {
	return &editService{
		dataset:  dataset,
		history:  history,
		notifier: notifier,
	}
}

const editTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func (s *editService) Edit(ctx context.Context, input EditInput) (*EditResult, error) {
	newNumber := strings.TrimSpace(input.NewEmployeeNumber)
	newName := strings.TrimSpace(input.NewSalespersonName)

	if newNumber == "" && newName == "" {
		return nil, ErrNoChanges
	}

	var coercedNumber int
	if newNumber != "" {
		n, err := strconv.Atoi(newNumber)
		if err != nil {
			logger.Debug("Employee number failed numeric coercion", map[string]interface{}{
				"input": newNumber,
			})
			return nil, ErrInvalidEmployeeNumber
		}
		coercedNumber = n
	}

	target, err := s.dataset.FindByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}

	roster, err := s.dataset.Roster(ctx)
	if err != nil {
		return nil, err
	}

	beforeNumber := target.EmployeeNumber.Norm()
	beforeName := target.SalespersonName

	updated := target.Clone()
	if newNumber != "" {
		updated.EmployeeNumber = model.NewLooseNumber(strconv.Itoa(coercedNumber))
	}
	if newName != "" {
		updated.SalespersonName = newName
	}
	updated.LastModifiedAt = time.Now().UTC().Format(editTimestampLayout)

	s.resolveSalesInfo(&updated, target.SalesInfo, roster, newNumber != "", newName != "")

	edit := model.EditRecord{
		ID:             uuid.NewString(),
		Timestamp:      updated.LastModifiedAt,
		StoreID:        input.StoreID,
		StoreName:      updated.Name,
		BusinessNumber: updated.BusinessNumber.Norm(),
		Changes: model.EditChanges{
			EmployeeNumber: model.FieldChange{
				Before: beforeNumber,
				After:  updated.EmployeeNumber.Norm(),
			},
			Salesperson: model.FieldChange{
				Before: beforeName,
				After:  updated.SalespersonName,
			},
		},
		Reason: strings.TrimSpace(input.Reason),
		Note:   strings.TrimSpace(input.Note),
		User:   input.Actor,
	}

	// 여기서부터 메모리 반영. 위에서 모든 검증/해석이 끝났다
	if err := s.dataset.ReplaceRecord(ctx, updated); err != nil {
		return nil, err
	}

	if err := s.history.Append(ctx, edit); err != nil {
		// 기록 실패는 수정 자체를 막지 않는다
		logger.Error("Failed to append edit history", err, map[string]interface{}{
			"recordID": edit.ID,
			"storeId":  edit.StoreID,
		})
	}

	result := &EditResult{
		UpdatedRecord: updated,
		EditRecord:    edit,
	}

	message := fmt.Sprintf("Update salesperson: %s - %s → %s",
		updated.Name, beforeName, updated.SalespersonName)
	ref, err := s.dataset.Persist(ctx, message)
	if err != nil {
		// 낙관적 수정: 저장 실패를 보고만 하고 메모리는 되돌리지 않는다
		logger.Error("Failed to persist dataset after edit", err, map[string]interface{}{
			"storeId": edit.StoreID,
			"backend": s.dataset.StorageName(),
		})
		result.PersistErr = err
	} else {
		result.StorageRef = ref
		result.Persisted = true
	}

	if s.notifier != nil {
		s.notifier.NotifyEdit(updated, edit)
	}

	logger.Info("Salesperson edit applied", map[string]interface{}{
		"storeId":   edit.StoreID,
		"storeName": updated.Name,
		"before":    beforeName,
		"after":     updated.SalespersonName,
		"persisted": result.Persisted,
	})
	return result, nil
}

// resolveSalesInfo 수정된 사번/이름에 맞춰 salesInfo를 다시 붙인다.
//
// 1. 사번과 이름이 모두 일치하는 로스터 항목이 있으면 그것을 쓴다.
// 2. 이름만 바뀐 경우 이름으로 로스터를 찾아 그 사람의 사번을 채택한다.
//    동명이인은 현재 지점 → 현재 지사 순으로 우선하고, 그래도 여럿이면
//    첫 항목을 쓰되 경고를 남긴다.
// 3. 사번만 바뀐 경우 사번으로 찾아 이름을 채택한다.
// 4. 로스터에 없으면 기존 salesInfo의 지사/지점을 유지한 채
//    사번/이름만 덮어쓴다 (지사 맥락을 잃지 않기 위해).
// 5. 기존 salesInfo도 없으면 null.
func (s *editService) resolveSalesInfo(updated *model.StoreRecord, previous *model.SalespersonRecord, roster []model.SalespersonRecord, numberGiven, nameGiven bool) {
	number := updated.EmployeeNumber.Norm()
	name := strings.TrimSpace(updated.SalespersonName)

	for i := range roster {
		if roster[i].EmployeeNumber.Norm() == number && strings.TrimSpace(roster[i].Name) == name {
			info := roster[i]
			updated.SalesInfo = &info
			return
		}
	}

	if nameGiven && !numberGiven {
		if match := s.lookupByName(name, previous, roster); match != nil {
			updated.EmployeeNumber = match.EmployeeNumber
			info := *match
			updated.SalesInfo = &info
			return
		}
	}

	if numberGiven && !nameGiven {
		for i := range roster {
			if roster[i].EmployeeNumber.Norm() == number {
				info := roster[i]
				updated.SalespersonName = info.Name
				updated.SalesInfo = &info
				return
			}
		}
	}

	if previous != nil {
		info := *previous
		info.EmployeeNumber = updated.EmployeeNumber
		info.Name = updated.SalespersonName
		updated.SalesInfo = &info
		return
	}

	updated.SalesInfo = nil
}

func (s *editService) lookupByName(name string, previous *model.SalespersonRecord, roster []model.SalespersonRecord) *model.SalespersonRecord {
	var candidates []int
	for i := range roster {
		if strings.TrimSpace(roster[i].Name) == name {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if previous != nil {
		for _, i := range candidates {
			if roster[i].Office != "" && roster[i].Office == previous.Office {
				return &roster[i]
			}
		}
		for _, i := range candidates {
			if roster[i].Branch != "" && roster[i].Branch == previous.Branch {
				return &roster[i]
			}
		}
	}

	if len(candidates) > 1 {
		logger.Warn("Ambiguous salesperson name resolved to first roster entry", map[string]interface{}{
			"name":       name,
			"candidates": len(candidates),
			"branch":     roster[candidates[0]].Branch,
			"office":     roster[candidates[0]].Office,
		})
	}
	return &roster[candidates[0]]
}
