package server

import (
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"home_maintenance/pkg/errcodes"
)

// parsePaging читает limit и offset из query; отсутствующие значения равны нулю.
func parsePaging(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()

	if limit, err = queryInt(q.Get("limit")); err != nil {
		return 0, 0, err
	}

	if offset, err = queryInt(q.Get("offset")); err != nil {
		return 0, 0, err
	}

	return limit, offset, nil
}

func queryInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, failure.NewInvalidArgumentError(
			fmt.Errorf("strconv.Atoi: %w", err).Error(),
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription(fmt.Sprintf("paging parameter must be an integer, got %q", s)),
		)
	}

	return n, nil
}
