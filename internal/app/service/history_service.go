package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/app/repository"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// HistoryService 수정 기록 조회와 내보내기
type HistoryService interface {
	// List storeID가 비어 있으면 전체, 아니면 해당 거래처 기록만 (최신순)
	List(ctx context.Context, storeID string, limit int) ([]model.EditRecord, error)
	Count(ctx context.Context) (int, error)
	// ExportCSV BOM이 붙은 CSV. 스프레드시트 프로그램이 UTF-8로 인식하도록
	ExportCSV(ctx context.Context) ([]byte, error)
	// ExportXLSX 엑셀 워크북 바이너리
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type historyService struct {
	repo repository.EditHistoryRepository
}

func NewHistoryService(repo repository.EditHistoryRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) List(ctx context.Context, storeID string, limit int) ([]model.EditRecord, error) {
	if storeID != "" {
		return s.repo.ListByStore(ctx, storeID)
	}
	return s.repo.List(ctx, limit)
}

func (s *historyService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

var exportHeader = []string{
	"수정일시", "거래처ID", "거래처명", "사업자번호",
	"변경전 사번", "변경후 사번", "변경전 담당자", "변경후 담당자",
	"수정사유", "비고", "수정자",
}

func exportRow(r model.EditRecord) []string {
	storeID := r.StoreID
	if storeID == "" {
		storeID = r.StoreCode
	}
	return []string{
		r.Timestamp,
		storeID,
		r.StoreName,
		r.BusinessNumber,
		r.Changes.EmployeeNumber.Before,
		r.Changes.EmployeeNumber.After,
		r.Changes.Salesperson.Before,
		r.Changes.Salesperson.After,
		r.Reason,
		r.Note,
		r.User,
	}
}

func (s *historyService) ExportCSV(ctx context.Context) ([]byte, error) {
	records, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	// UTF-8 BOM: 엑셀이 한글을 깨뜨리지 않고 읽게 한다
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(exportRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	logger.Info("Edit history exported to CSV", map[string]interface{}{
		"records": len(records),
		"bytes":   buf.Len(),
	})
	return buf.Bytes(), nil
}

func (s *historyService) ExportXLSX(ctx context.Context) ([]byte, error) {
	records, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "수정기록"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range records {
		row := exportRow(r)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	logger.Info("Edit history exported to XLSX", map[string]interface{}{
		"records": len(records),
		"bytes":   buf.Len(),
	})
	return buf.Bytes(), nil
}
