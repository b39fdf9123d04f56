package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sutd-rms/secret-sauce/lib/rms"
	"github.com/sutd-rms/secret-sauce/lib/tabular"
	"github.com/sutd-rms/secret-sauce/lib/tasks"
	"github.com/sutd-rms/secret-sauce/services"
	"gorm.io/gorm"
)

// actor extracts the authenticated actor from the gin context
func actor(c *gin.Context) (string, bool, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return "", false, false
	}
	role, _ := c.Get("role")
	return userID.(string), role == "admin", true
}

// fail maps a service error to an HTTP response following the error
// taxonomy: input malformation and precondition violations are 400 with
// detail, missing records 404, permission failures 403, external-service
// unavailability and a full dispatch queue 503.
func fail(c *gin.Context, err error) {
	var cellErrors tabular.CellErrors
	if errors.As(err, &cellErrors) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Uploaded file contains invalid cells",
			"errors":  cellErrors,
		})
		return
	}

	var floorCap *services.FloorAboveCapError
	var missingCost *services.MissingCostItemsError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Resource not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": err.Error()})
	case errors.Is(err, tabular.ErrUnreadableFile),
		errors.Is(err, tabular.ErrWrongHeader),
		errors.Is(err, tabular.ErrQuerySizeExceeded),
		errors.Is(err, services.ErrCostSheetExists),
		errors.Is(err, services.ErrEmptyConstraint),
		errors.Is(err, services.ErrInvalidRelation),
		errors.Is(err, services.ErrParameterOutsideBlock),
		errors.Is(err, services.ErrConflictDetected),
		errors.Is(err, services.ErrCrossProject),
		errors.Is(err, services.ErrModelNotTrained),
		errors.Is(err, services.ErrFeatureImportanceNotReady),
		errors.Is(err, services.ErrElasticityNotReady),
		errors.Is(err, services.ErrCVNotReady),
		errors.Is(err, services.ErrResultNotReady),
		errors.As(err, &floorCap),
		errors.As(err, &missingCost):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
	case errors.Is(err, tasks.ErrQueueFull), errors.Is(err, tasks.ErrStopped),
		errors.Is(err, rms.ErrTimeout), errors.Is(err, rms.ErrUnavailable),
		errors.Is(err, rms.ErrMalformed), errors.Is(err, rms.ErrRejected):
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
	}
}

// readUpload pulls the named multipart file out of the request
func readUpload(c *gin.Context, field string) (string, []byte, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing file field: " + field})
		return "", nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Unable to read uploaded file"})
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Unable to read uploaded file"})
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}
