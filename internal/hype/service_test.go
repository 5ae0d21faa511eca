package hype_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tabot/internal/apperr"
	"tabot/internal/db/dbtest"
	"tabot/internal/guild"
	"tabot/internal/hype"
	"tabot/internal/index"
	"tabot/internal/platform"
)

var _ = Describe("Service", func() {
	var (
		ctx   context.Context
		repo  *hype.Repo
		ix    *index.Index
		local *platform.Local
		svc   *hype.Service

		helper = platform.Member{ID: "h1", DisplayName: "Helen", RoleIDs: []string{"helpers"}}
		other  = platform.Member{ID: "u1", DisplayName: "Ann"}
	)

	BeforeEach(func() {
		ctx = context.Background()
		gdb, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(dbtest.Close, gdb)

		repo = &hype.Repo{DB: gdb}
		ix = index.New()
		ix.SetGuild(guild.Config{GuildID: "g1", HelperRoleID: "helpers", HypeChannelID: "hype"})
		local = platform.NewLocal("BOT", "g1")
		svc = hype.NewService(repo, ix, local, nil, nil)
	})

	in := func(messageID string, actor platform.Member) hype.HypeInput {
		return hype.HypeInput{GuildID: "g1", ChannelID: "general", MessageID: messageID, AuthorID: actor.ID, Actor: actor}
	}

	It("records the hype and posts a highlight with the jump link", func() {
		res, err := svc.Hype(ctx, in("m1", helper))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Count).To(Equal(int64(1)))
		posted := local.Messages("hype")
		Expect(posted).To(HaveLen(1))
		Expect(posted[0].Title).To(Equal("Hype Message -- From @Helen"))
		Expect(posted[0].LinkURL).To(Equal("https://discord.com/channels/g1/general/m1"))
	})

	It("counts the helper's hypes", func() {
		_, _ = svc.Hype(ctx, in("m1", helper))
		res, err := svc.Hype(ctx, in("m2", helper))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Count).To(Equal(int64(2)))
	})

	It("rejects a second hype on the same message", func() {
		_, err := svc.Hype(ctx, in("m1", helper))
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.Hype(ctx, in("m1", helper))

		Expect(apperr.KindOf(err)).To(Equal(apperr.InvalidStateTransition))
	})

	It("only lets helpers hype their own messages", func() {
		_, err := svc.Hype(ctx, in("m1", other))
		Expect(apperr.KindOf(err)).To(Equal(apperr.AuthorizationDenied))

		foreign := in("m1", helper)
		foreign.AuthorID = "someone-else"
		_, err = svc.Hype(ctx, foreign)
		Expect(apperr.KindOf(err)).To(Equal(apperr.AuthorizationDenied))
	})

	It("needs a helper role and a hype channel", func() {
		ix.SetGuild(guild.Config{GuildID: "g1", HelperRoleID: "helpers"})
		_, err := svc.Hype(ctx, in("m1", helper))
		Expect(apperr.KindOf(err)).To(Equal(apperr.ConfigurationMissing))

		ix.SetGuild(guild.Config{GuildID: "g1"})
		_, err = svc.Hype(ctx, in("m1", helper))
		Expect(apperr.KindOf(err)).To(Equal(apperr.ConfigurationMissing))
	})

	It("needs the bot to post in the hype channel", func() {
		local.SetPermissions("hype", platform.PermSendMessages)

		_, err := svc.Hype(ctx, in("m1", helper))

		Expect(apperr.KindOf(err)).To(Equal(apperr.AuthorizationDenied))
		n, _ := repo.CountByHelper(ctx, "g1", "h1")
		Expect(n).To(BeZero())
	})

	It("keeps the record when the highlight post fails", func() {
		local.FailOn("SendMessage", errors.New("rate limited"))

		res, err := svc.Hype(ctx, in("m1", helper))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Count).To(Equal(int64(1)))
	})
})

var _ = Describe("Repo", func() {
	It("ranks helpers by hypes received", func() {
		ctx := context.Background()
		gdb, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(dbtest.Close, gdb)
		repo := &hype.Repo{DB: gdb}

		for i, h := range []string{"b", "a", "b", "c", "a"} {
			_, err := repo.Create(ctx, &hype.Hype{
				MessageID:  string(rune('m'+i)) + h,
				GuildID:    "g1",
				ChannelID:  "general",
				HelperID:   h,
				HelperName: "name-" + h,
			})
			Expect(err).NotTo(HaveOccurred())
		}

		rows, err := repo.Leaderboard(ctx, "g1")

		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal([]hype.Count{
			{HelperID: "a", HelperName: "name-a", Count: 2},
			{HelperID: "b", HelperName: "name-b", Count: 2},
			{HelperID: "c", HelperName: "name-c", Count: 1},
		}))
	})
})
