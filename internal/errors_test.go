package internal_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("matches sentinels through wrapping and copies", func() {
		wrapped := fmt.Errorf("redeem: %w", internal.ErrInsufficientPoints.WithCause(errors.New("guard")))
		Expect(errors.Is(wrapped, internal.ErrInsufficientPoints)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrRewardUnavailable)).To(BeFalse())

		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(internal.ErrInsufficientPoints.Cause).To(BeNil())
	})

	It("hides the cause of internal errors from clients", func() {
		status, body := internal.NewInternalError("failed to complete task", errors.New("pq: deadlock")).ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(Equal(internal.ErrorBody{Message: "Internal server error", Code: internal.ErrCodeInternal}))
	})

	It("surfaces business rule messages", func() {
		status, body := internal.ErrTaskNotAssigned.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body.(internal.ErrorBody).Message).To(Equal("You are not assigned to this task"))
	})

	It("joins field messages", func() {
		appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "title", Message: "title is required"},
				{Field: "points", Message: "points must be at least 1"},
			}})
		Expect(appErr.GetDetailedMessage()).To(Equal("title is required; points must be at least 1"))
		Expect(appErr.Error()).To(Equal("title is required"))
	})
})

var _ = Describe("context helpers", func() {
	It("round-trips the user id", func() {
		ctx := internal.ContextWithUserID(context.Background(), 42)
		Expect(internal.UserIDFromContext(ctx)).To(Equal(int64(42)))
		Expect(internal.UserIDFromContext(context.Background())).To(BeZero())
	})

	It("falls back to the default job timeout", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()

		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("~", internal.DefaultJobTimeout, time.Second))
	})
})
