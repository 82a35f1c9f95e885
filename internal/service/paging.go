package service

import "github.com/filehub-app/filehub/internal/util"

func pagedWindow(pageIndex, pageSize int) (offset, limit int) {
	return util.Calculate(pageIndex, pageSize)
}

func normalizePage(pageIndex int) int {
	if pageIndex < 1 {
		return 1
	}
	return pageIndex
}
