// Package errors はedakit全体のエラーハンドリングと警告システムを提供します。
// データセット・EDAサマリー・実験ログの各操作で発生する失敗を構造化された型として表現します。
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("edakit-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はedakit全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ParamExistsWarning はサマリーの値が既に設定済みで上書きが許可されていない場合の警告です。
type ParamExistsWarning struct {
	Name     string
	Param    string
	Existing string
}

func (w *ParamExistsWarning) Error() string {
	return fmt.Sprintf("parameter '%s' already has value %s in summary of '%s'. Use overwrite to update. Skipping",
		w.Param, w.Existing, w.Name)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ParamExistsWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("eda", w.Name).
		Str("param", w.Param).
		Str("existing", w.Existing).
		Str("type", "ParamExistsWarning")
}

// NewParamExistsWarning は新しいParamExistsWarningを作成します。
func NewParamExistsWarning(name, param, existing string) *ParamExistsWarning {
	return &ParamExistsWarning{Name: name, Param: param, Existing: existing}
}

// EDAWarning はEDAサマリーの取得要求が満たせなかった場合の警告です。
// 例えば、既存のEDAと同名で新規作成を要求した場合など。
type EDAWarning struct {
	Name   string
	Reason string
}

func (w *EDAWarning) Error() string {
	return fmt.Sprintf("eda '%s': %s", w.Name, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *EDAWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("eda", w.Name).
		Str("reason", w.Reason).
		Str("type", "EDAWarning")
}

// NewEDAWarning は新しいEDAWarningを作成します。
func NewEDAWarning(name, reason string) *EDAWarning {
	return &EDAWarning{Name: name, Reason: reason}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// DatasetNotFoundError はデータセットのCSVファイルが見つからない場合のエラーです。
type DatasetNotFoundError struct {
	Name string
	Dir  string
	Err  error
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("edakit: could not load data for dataset %s. Please ensure data is available in %s directory", e.Name, e.Dir)
}

func (e *DatasetNotFoundError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DatasetNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("dataset", e.Name).
		Str("dir", e.Dir).
		Str("type", "DatasetNotFoundError")
}

// NewDatasetNotFoundError は新しいDatasetNotFoundErrorを作成し、スタックトレースを付与します。
func NewDatasetNotFoundError(name, dir string, cause error) error {
	err := &DatasetNotFoundError{Name: name, Dir: dir, Err: cause}
	return errors.WithStack(err)
}

// AlreadyExistsError は上書きが許可されていない状態で既存のエントリへ書き込もうとした場合のエラーです。
type AlreadyExistsError struct {
	Kind string // "dataset", "eda"
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("edakit: %s %s already exists. Use overwrite to replace it", e.Kind, e.Name)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *AlreadyExistsError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("kind", e.Kind).
		Str("name", e.Name).
		Str("type", "AlreadyExistsError")
}

// NewAlreadyExistsError は新しいAlreadyExistsErrorを作成し、スタックトレースを付与します。
func NewAlreadyExistsError(kind, name string) error {
	err := &AlreadyExistsError{Kind: kind, Name: name}
	return errors.WithStack(err)
}

// ParamNotFoundError はサマリーに存在しない列を列追加なしで更新しようとした場合のエラーです。
type ParamNotFoundError struct {
	Name  string
	Param string
}

func (e *ParamNotFoundError) Error() string {
	return fmt.Sprintf("edakit: parameter '%s' not found in summary of '%s'", e.Param, e.Name)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ParamNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("eda", e.Name).
		Str("param", e.Param).
		Str("type", "ParamNotFoundError")
}

// NewParamNotFoundError は新しいParamNotFoundErrorを作成し、スタックトレースを付与します。
func NewParamNotFoundError(name, param string) error {
	err := &ParamNotFoundError{Name: name, Param: param}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("edakit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("edakit: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、数値でない列を行列に変換しようとした場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("edakit: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// IsNotExist はエラーチェーンのどこかにファイル不存在エラーが含まれるかを判定します。
func IsNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrNoGPUTool はGPU情報を取得するツールが見つからない場合のエラーです。
	ErrNoGPUTool = New("gpu query tool not available")
)
