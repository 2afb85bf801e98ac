package lox

func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}

func ReverseMap[T, T1 any, R comparable](collection map[R]T, iteratee func(key R, value T) T1) []T1 {
	result := make([]T1, 0, len(collection))

	for k, v := range collection {
		result = append(result, iteratee(k, v))
	}

	return result
}
