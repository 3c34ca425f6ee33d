package model

// FetchResult 单个数据源的抓取结果，失败时只携带诊断文本，不返回 error
type FetchResult[T any] struct {
	value  T
	reason string
	ok     bool
}

func Ok[T any](value T) FetchResult[T] {
	return FetchResult[T]{value: value, ok: true}
}

func Unavailable[T any](reason string) FetchResult[T] {
	return FetchResult[T]{reason: reason}
}

func (r FetchResult[T]) IsOk() bool {
	return r.ok
}

// Value 成功时的值，Unavailable 时为零值
func (r FetchResult[T]) Value() T {
	return r.value
}

// Reason Unavailable 时的诊断文本
func (r FetchResult[T]) Reason() string {
	return r.reason
}

// Text 成功时用 okText 取文本，失败时原样返回诊断文本
func (r FetchResult[T]) Text(okText func(T) string) string {
	if !r.ok {
		return r.reason
	}
	return okText(r.value)
}
