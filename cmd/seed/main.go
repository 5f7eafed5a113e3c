package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/superae99/salesmap-backend/config"
	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/storage"
	"github.com/xuri/excelize/v2"
)

// 거래처 원본 XLSX를 읽어 저장 백엔드에 JSON으로 적재한다.
//
//	go run cmd/seed/main.go <xlsx_file_path>
func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gateway, err := storage.NewGateway(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage gateway:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	records, skipped, err := readStoresFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total stores to import: %d (skipped rows: %d)\n", len(records), skipped)
	fmt.Printf("Target backend: %s\n", gateway.Name())

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	message := fmt.Sprintf("Seed store dataset (%d records)", len(records))
	ref, err := gateway.Save(ctx, records, message)
	if err != nil {
		log.Fatal("Failed to save dataset:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total stores imported: %d (ref: %s)\n", len(records), ref)
}

// 시트 헤더로 컬럼 위치를 찾는다. 원본 XLSX는 컬럼 순서가 파일마다
// 달라서 인덱스 고정 대신 헤더 이름 매칭을 쓴다.
var requiredColumns = []string{"거래처명", "기본주소(사업자기준)"}

var knownColumns = []string{
	"거래처명",
	"사업자번호",
	"기본주소(사업자기준)",
	"RTM 채널",
	"위도",
	"경도",
	"담당 사번",
	"담당 영업사원",
}

func readStoresFromXLSX(filePath string) ([]model.StoreRecord, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	columns := map[string]int{}
	for idx, header := range rows[0] {
		name := strings.TrimSpace(header)
		for _, known := range knownColumns {
			if name == known {
				columns[known] = idx
			}
		}
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, 0, fmt.Errorf("required column %q not found in sheet header", required)
		}
	}
	fmt.Printf("Mapped columns: %v\n", columns)

	cell := func(row []string, column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []model.StoreRecord
	skipped := 0
	for _, row := range rows[1:] {
		name := cell(row, "거래처명")
		address := cell(row, "기본주소(사업자기준)")
		if name == "" || address == "" {
			skipped++
			continue
		}
		records = append(records, model.StoreRecord{
			Name:            name,
			BusinessNumber:  model.NewLooseString(cell(row, "사업자번호")),
			Address:         address,
			RTMChannel:      cell(row, "RTM 채널"),
			Latitude:        model.NewLooseString(cell(row, "위도")),
			Longitude:       model.NewLooseString(cell(row, "경도")),
			EmployeeNumber:  model.NewLooseString(cell(row, "담당 사번")),
			SalespersonName: cell(row, "담당 영업사원"),
		})
	}

	return records, skipped, nil
}
