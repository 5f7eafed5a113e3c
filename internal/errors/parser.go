package errors

import (
	"errors"
	"strings"

	"github.com/superae99/salesmap-backend/internal/storage"
	"github.com/superae99/salesmap-backend/pkg/github"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보(토큰, 저장소 경로 등)는 숨기되,
// 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. 저장소 에러
	var loadErr *storage.LoadError
	if errors.As(err, &loadErr) {
		return ErrorInfo{
			Code:    DataLoadFailed,
			Message: "데이터를 불러오지 못했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	var saveErr *storage.SaveError
	if errors.As(err, &saveErr) {
		return parseSaveError(saveErr)
	}

	// 2. 비즈니스 로직 에러 (service layer에서 정의된 에러)
	if strings.Contains(errStr, "거래처를 찾을 수 없습니다") {
		return ErrorInfo{Code: StoreNotFound, Message: "거래처를 찾을 수 없습니다"}
	}
	if strings.Contains(errStr, "변경할 내용이 없습니다") {
		return ErrorInfo{Code: ValidationNoChange, Message: "변경할 내용이 없습니다"}
	}
	if strings.Contains(errStr, "사번은 숫자여야 합니다") {
		return ErrorInfo{Code: EditInvalidNumber, Message: "사번은 숫자여야 합니다"}
	}
	if strings.Contains(errStr, "데이터가 아직 준비되지 않았습니다") {
		return ErrorInfo{Code: DataNotReady, Message: "데이터가 아직 준비되지 않았습니다. 잠시 후 다시 시도해주세요"}
	}
	if strings.Contains(errStr, "저장된 필터 설정이 없습니다") {
		return ErrorInfo{Code: PreferenceNotFound, Message: "저장된 필터 설정이 없습니다"}
	}
	if strings.Contains(errStr, "아이디 또는 비밀번호가 올바르지 않습니다") {
		return ErrorInfo{Code: AuthInvalidCredentials, Message: "아이디 또는 비밀번호가 올바르지 않습니다"}
	}

	// 3. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "외부 서비스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	// 4. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseSaveError 저장 실패 사유를 구분한다.
// GitHub blob SHA 충돌(다른 세션이 먼저 커밋)은 일반 저장 실패와
// 다른 안내가 필요하다.
func parseSaveError(saveErr *storage.SaveError) ErrorInfo {
	var apiErr *github.APIError
	if errors.As(saveErr.Err, &apiErr) && apiErr.IsConflict() {
		return ErrorInfo{
			Code:    DataSaveFailed,
			Message: "다른 사용자가 먼저 저장했습니다. 데이터를 새로고침 후 다시 시도해주세요",
		}
	}
	return ErrorInfo{
		Code:    DataSaveFailed,
		Message: "데이터 저장에 실패했습니다. 잠시 후 다시 시도해주세요",
	}
}

// getDefaultErrorMessage context에 맞는 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	messages := map[string]string{
		"auth":       "인증 처리 중 오류가 발생했습니다",
		"data":       "데이터 처리 중 오류가 발생했습니다",
		"edit":       "담당자 수정 중 오류가 발생했습니다",
		"history":    "수정 기록 처리 중 오류가 발생했습니다",
		"export":     "내보내기 처리 중 오류가 발생했습니다",
		"preference": "필터 설정 처리 중 오류가 발생했습니다",
	}

	if msg, ok := messages[context]; ok {
		return msg
	}
	return "요청 처리 중 오류가 발생했습니다"
}
