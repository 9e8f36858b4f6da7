package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("body redaction", func() {
	It("filters sensitive keys at any depth and keeps scalars", func() {
		out := redactBody([]byte(`{"email":"a@b.c","points":10,"done":true,"user":{"password":"x"},"tags":["a",null]}`))

		Expect(out).To(ContainSubstring(`"email":"a@b.c"`))
		Expect(out).To(ContainSubstring(`"points":10`))
		Expect(out).To(ContainSubstring(`"done":true`))
		Expect(out).To(ContainSubstring(`"password":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"tags":["a",null]`))
	})

	It("passes a bare JSON scalar through", func() {
		Expect(redactBody([]byte(`42`))).To(Equal("42"))
	})

	It("peeks no more than the log cap", func() {
		payload := strings.Repeat("y", maxLoggedBody*3)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))

		head := peekBody(req)
		Expect(head).To(HaveLen(maxLoggedBody))

		rest, err := io.ReadAll(req.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(rest)).To(Equal(payload))
	})
})
