package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound は画像パスが存在しないことを示します。
	ErrNotFound = errors.New("image not found")
	// ErrRemote は生成サービス側の失敗すべてに一致します。
	ErrRemote = errors.New("remote generation failed")
	// ErrMissingCredential は API キーが設定されていないことを示します。起動時に致命的です。
	ErrMissingCredential = errors.New("GOOGLE_API_KEY is required")
)

// NotFoundError は存在しないパスを保持します。
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find image: %s", e.Path)
}

// Is は errors.Is(err, ErrNotFound) を成立させます。
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RemoteErrorKind はリモート失敗の分類です。
type RemoteErrorKind int

const (
	// RemoteRejection は安全性ブロック、認証、クォータ、不正リクエストなどの拒否です。
	RemoteRejection RemoteErrorKind = iota + 1
	// RemoteUnavailable はネットワークやサービス側の一時的な障害です。
	RemoteUnavailable
)

func (k RemoteErrorKind) String() string {
	switch k {
	case RemoteRejection:
		return "rejection"
	case RemoteUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// RemoteError は生成サービスからの失敗をプロバイダの詳細ごと保持します。
type RemoteError struct {
	Kind   RemoteErrorKind
	Detail string
	Err    error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("gemini %s", e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is は errors.Is(err, ErrRemote) を成立させます。
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// RemoteKindOf は err に含まれる RemoteError の分類を返します。含まれない場合は 0 です。
func RemoteKindOf(err error) RemoteErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}
