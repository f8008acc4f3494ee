package storage

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mcp-menu-gacha/internal/models"
)

func sampleMenu() []models.MenuItem {
	return []models.MenuItem{
		{
			ItemID:      "karaage",
			Name:        "唐揚げ",
			Description: "鶏の唐揚げ",
			Price:       480,
			Allergens:   []models.Allergen{models.AllergenWheat, models.AllergenEgg},
		},
		{
			ItemID:        "onigiri",
			Name:          "おにぎり",
			Price:         180,
			HasStapleFood: true,
			Allergens:     []models.Allergen{},
			CustomizeItems: []models.CustomizeItem{
				{ItemID: "onigiri-salmon", Name: "鮭", Price: 50},
				{ItemID: "onigiri-ume", Name: "梅", Price: 30},
			},
		},
		{
			ItemID:    "beer",
			Name:      "生ビール",
			Price:     550,
			IsAlcohol: true,
			Allergens: []models.Allergen{},
		},
	}
}

var _ = Describe("SQLiteStorage", func() {
	var (
		ctx   context.Context
		store *SQLiteStorage
		path  string
	)

	BeforeEach(func() {
		ctx = context.Background()
		path = filepath.Join(GinkgoT().TempDir(), "menu.db")

		var err error
		store, err = NewSQLiteStorage(path)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)
	})

	Context("with an empty database", func() {
		It("should list no items", func() {
			items, err := store.ListMenuItems(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
			Expect(items).NotTo(BeNil())
		})
	})

	Context("after importing a menu", func() {
		BeforeEach(func() {
			Expect(store.ReplaceMenu(ctx, sampleMenu())).To(Succeed())
		})

		It("should return every item with its attributes", func() {
			items, err := store.ListMenuItems(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(Equal(sampleMenu()))
		})

		It("should keep catalog order", func() {
			reordered := sampleMenu()
			reordered[0], reordered[2] = reordered[2], reordered[0]
			Expect(store.ReplaceMenu(ctx, reordered)).To(Succeed())

			items, err := store.ListMenuItems(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items[0].ItemID).To(Equal("beer"))
			Expect(items[2].ItemID).To(Equal("karaage"))
		})

		It("should replace rather than merge", func() {
			Expect(store.ReplaceMenu(ctx, sampleMenu()[:1])).To(Succeed())

			items, err := store.ListMenuItems(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Allergens).To(Equal([]models.Allergen{models.AllergenWheat, models.AllergenEgg}))
			Expect(items[0].CustomizeItems).To(BeEmpty())
		})

		It("should survive reopening the database", func() {
			Expect(store.Close()).To(Succeed())

			reopened, err := NewSQLiteStorage(path)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(reopened.Close)

			items, err := reopened.ListMenuItems(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(3))
		})
	})

	Context("with an invalid menu", func() {
		It("should reject duplicate ids and keep the previous menu", func() {
			Expect(store.ReplaceMenu(ctx, sampleMenu())).To(Succeed())

			dup := append(sampleMenu(), models.MenuItem{ItemID: "beer", Name: "again", Price: 100})
			Expect(store.ReplaceMenu(ctx, dup)).NotTo(Succeed())

			items, err := store.ListMenuItems(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(3))
		})

		It("should reject negative prices", func() {
			bad := []models.MenuItem{{ItemID: "refund", Price: -1}}
			Expect(store.ReplaceMenu(ctx, bad)).NotTo(Succeed())
		})
	})
})
