package repository

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
