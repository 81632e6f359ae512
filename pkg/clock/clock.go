// Package clock 提供可注入的时钟抽象，便于在测试中控制时间。
package clock

import "time"

// Clock 返回当前时间。业务层通过构造函数注入，避免直接依赖 time.Now。
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System 返回基于系统时间的 Clock 实现。
func System() Clock {
	return systemClock{}
}
