package importer

import (
	"git.appkode.ru/pub/go/failure"

	"home_maintenance/pkg/errcodes"
)

func invalidFile(op string, err error) error {
	return failure.NewInvalidArgumentErrorFromError(err,
		failure.WithCode(errcodes.InvalidImportFile),
		failure.WithDescription(op+": "+err.Error()),
	)
}
