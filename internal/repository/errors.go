package repository

import "errors"

var ErrNotFound = errors.New("not found")

// DB制約違反をusecaseで区別するための共通エラー
var (
	// 外部キー違反（23503）
	ErrForeignKey = errors.New("foreign key violation")
	// NOT NULL違反（23502）
	ErrNotNull = errors.New("not null violation")
	// 権限不足（42501）
	ErrPermission = errors.New("permission denied")
	// 一意制約違反（23505）
	ErrConflict = errors.New("unique violation")
)
