package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 계정/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목
	ValidationNoChange      = "VALIDATION_NO_CHANGE"      // 변경할 내용 없음

	// ==================== 거래처 (STORE_) ====================
	StoreNotFound = "STORE_NOT_FOUND" // 거래처 없음

	// ==================== 수정 (EDIT_) ====================
	EditFailed        = "EDIT_FAILED"         // 담당자 수정 실패
	EditInvalidNumber = "EDIT_INVALID_NUMBER" // 사번 숫자 변환 실패

	// ==================== 수정 기록 (HISTORY_) ====================
	HistoryNotFound     = "HISTORY_NOT_FOUND"      // 수정 기록 없음
	HistoryExportFailed = "HISTORY_EXPORT_FAILED"  // 내보내기 실패

	// ==================== 데이터 (DATA_) ====================
	DataLoadFailed = "DATA_LOAD_FAILED" // 데이터 로드 실패
	DataSaveFailed = "DATA_SAVE_FAILED" // 데이터 저장 실패
	DataNotReady   = "DATA_NOT_READY"   // 데이터 미적재 상태

	// ==================== 설정 (PREFERENCE_) ====================
	PreferenceNotFound = "PREFERENCE_NOT_FOUND" // 저장된 필터 설정 없음

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR" // 서버 오류
	InternalExternalAPI = "INTERNAL_EXTERNAL_API" // 외부 API 오류
	InternalConfigError = "INTERNAL_CONFIG_ERROR" // 설정 오류
)
