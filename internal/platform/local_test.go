package platform_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tabot/internal/id"
	"tabot/internal/platform"
)

var _ = Describe("Local", func() {
	var (
		ctx   context.Context
		local *platform.Local
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())
		local = platform.NewLocal("bot", "g1", "g2")
	})

	It("grants everything unless told otherwise", func() {
		p, err := local.Permissions(ctx, "c1", "bot")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(platform.PermAll))

		local.SetPermissions("c1", platform.PermViewChannel)
		p, _ = local.Permissions(ctx, "c1", "bot")
		Expect(p).To(Equal(platform.PermViewChannel))
	})

	It("edits only cards it posted", func() {
		msgID, err := local.PostCard(ctx, "c1", platform.Card{Status: "WAITING"})
		Expect(err).NotTo(HaveOccurred())

		Expect(local.EditCard(ctx, "c1", msgID, platform.Card{Status: "CLAIMED"})).To(Succeed())
		Expect(local.EditCard(ctx, "c1", "unknown", platform.Card{})).NotTo(Succeed())

		card, ok := local.Card(msgID)
		Expect(ok).To(BeTrue())
		Expect(card.Status).To(Equal("CLAIMED"))
	})

	It("reports guilds, admin roles and presence", func() {
		local.SetAdminRole("g1", "admins")

		guilds, _ := local.Guilds(ctx)
		role, _ := local.InferAdminRole(ctx, "g1")
		Expect(local.SetPresence(ctx, "1 solved / 2 raised questions")).To(Succeed())

		Expect(guilds).To(Equal([]string{"g1", "g2"}))
		Expect(role).To(Equal("admins"))
		Expect(local.Presence()).To(Equal("1 solved / 2 raised questions"))
	})
})
