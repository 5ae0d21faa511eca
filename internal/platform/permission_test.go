package platform_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tabot/internal/platform"
)

var _ = Describe("Permission", func() {
	It("finds nothing missing when everything is granted", func() {
		_, missing := platform.Missing(platform.PermAll, platform.ThreadCapabilities)
		Expect(missing).To(BeFalse())
	})

	It("reports the first missing capability in order", func() {
		granted := platform.PermViewChannel | platform.PermSendMessages | platform.PermManageThreads

		p, missing := platform.Missing(granted, platform.ThreadCapabilities)

		Expect(missing).To(BeTrue())
		Expect(p).To(Equal(platform.PermCreatePublicThreads))
		Expect(platform.MissingMessage(p)).To(Equal("Missing **CREATE PUBLIC THREADS** access."))
	})

	It("only needs view and send for common posting", func() {
		_, missing := platform.Missing(platform.PermViewChannel|platform.PermSendMessages, platform.CommonCapabilities)
		Expect(missing).To(BeFalse())
	})
})

var _ = Describe("Member", func() {
	It("never holds the empty role", func() {
		m := platform.Member{ID: "u1", RoleIDs: []string{"r1"}}
		Expect(m.HasRole("r1")).To(BeTrue())
		Expect(m.HasRole("")).To(BeFalse())
		Expect(m.HasRole("r2")).To(BeFalse())
	})
})
