package handlers

import (
	"net/http"

	"pulse-backend/pkg/common"
	pkgerrors "pulse-backend/pkg/errors"

	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; profile pictures arrive as data
// URLs so this is larger than the content limits alone would need
const maxBodyBytes = 1 << 20

// respondServiceError maps an engine error onto the wire format.
// AppErrors carry their own status and code; anything else is an
// internal error and gets logged with its cause.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}

		code := appErr.Code
		if code == "" {
			code = string(appErr.Type)
		}

		if status >= 500 {
			logger.Error("request failed", zap.Error(err))
			common.RespondError(w, status, code, "Internal server error")
			return
		}

		common.RespondError(w, status, code, appErr.Message)
		return
	}

	logger.Error("request failed", zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Internal server error")
}
