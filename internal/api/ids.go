package api

import "github.com/google/uuid"

// newID 生成行主键：进程内与重启之间都不会复用的随机 UUID。
func newID() string {
	return uuid.NewString()
}
