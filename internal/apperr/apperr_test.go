package apperr_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tabot/internal/apperr"
)

var _ = Describe("apperr", func() {
	It("finds the kind through wrapping", func() {
		err := fmt.Errorf("claim: %w", apperr.New(apperr.InvalidStateTransition, "taken by %s", "Bob"))

		Expect(apperr.KindOf(err)).To(Equal(apperr.InvalidStateTransition))
		Expect(apperr.Is(err, apperr.InvalidStateTransition)).To(BeTrue())
		Expect(apperr.Is(err, apperr.NotFound)).To(BeFalse())
	})

	It("has no kind for plain errors", func() {
		Expect(apperr.KindOf(errors.New("x"))).To(BeZero())
		Expect(apperr.Is(nil, apperr.NotFound)).To(BeFalse())
	})

	It("keeps the cause of transient failures but a generic message", func() {
		cause := errors.New("connection refused")
		err := apperr.Transient("claim", cause)

		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Message).To(Equal("Something went wrong while running claim, please try again later."))
		Expect(err.Kind.String()).To(Equal("transient_io"))
	})
})
