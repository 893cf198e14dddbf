package reconcile

import (
	"context"
	"errors"
	"path"
	"strings"
	"unicode"

	"markethub/internal/models"
	"markethub/internal/storage"

	"gorm.io/gorm"
)

// minFuzzyLen is the shortest normalized name the fuzzy matcher will compare.
const minFuzzyLen = 3

// errImageChanged rolls back a backfill whose product gained an image meanwhile.
var errImageChanged = errors.New("product image changed during backfill")

// ImageOptions configures ImagePathRepair.
type ImageOptions struct {
	// Prefixes are the known storage directories a path may be moved between.
	Prefixes []string
	// PoolDir holds candidate files for the fuzzy backfill.
	PoolDir string
	// FuzzyMatch enables the name-based backfill of products without images.
	FuzzyMatch bool
}

// ImagePathRepair verifies stored image paths against the file store and
// rewrites, clears or deletes the ones that do not resolve.
type ImagePathRepair struct {
	db    *gorm.DB
	files storage.FileStore
	opts  ImageOptions
}

// NewImagePathRepair creates the job.
func NewImagePathRepair(db *gorm.DB, files storage.FileStore, opts ImageOptions) *ImagePathRepair {
	prefixes := make([]string, 0, len(opts.Prefixes))
	for _, p := range opts.Prefixes {
		if p = storage.Clean(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	opts.Prefixes = prefixes
	return &ImagePathRepair{db: db, files: files, opts: opts}
}

// Name implements Job.
func (j *ImagePathRepair) Name() string { return "image-path-repair" }

// Run implements Job.
func (j *ImagePathRepair) Run(ctx context.Context) (*Report, error) {
	report := newReport(j.Name())
	db := j.db.WithContext(ctx)

	if err := j.repairProducts(ctx, db, report); err != nil {
		return report.abort(err, "failed to repair product image paths")
	}
	if err := j.repairGallery(ctx, db, report); err != nil {
		return report.abort(err, "failed to repair product gallery paths")
	}
	if j.opts.FuzzyMatch {
		if err := j.backfill(ctx, db, report); err != nil {
			return report.abort(err, "failed to backfill product images")
		}
	}
	return report.finish(), nil
}

func (j *ImagePathRepair) repairProducts(ctx context.Context, db *gorm.DB, report *Report) error {
	var products []models.Product
	if err := db.Select("id", "image_url").Where("image_url <> ''").Order("id").Find(&products).Error; err != nil {
		return err
	}

	for _, p := range products {
		t := target("product", p.ID)
		resolved, ok := j.resolve(ctx, report, t, p.ImageURL)
		if !ok {
			continue
		}
		if resolved == p.ImageURL {
			continue
		}

		res := db.Model(&models.Product{}).Where("id = ? AND image_url = ?", p.ID, p.ImageURL).UpdateColumn("image_url", resolved)
		if res.Error != nil {
			if err := report.itemFailed(t, res.Error); err != nil {
				return err
			}
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		if resolved == "" {
			report.apply("clear_path", t, p.ImageURL)
		} else {
			report.apply("rewrite_path", t, p.ImageURL+" -> "+resolved)
		}
	}
	return nil
}

func (j *ImagePathRepair) repairGallery(ctx context.Context, db *gorm.DB, report *Report) error {
	var images []models.ProductImage
	if err := db.Order("id").Find(&images).Error; err != nil {
		return err
	}

	for _, img := range images {
		t := target("product_image", img.ID)
		resolved, ok := j.resolve(ctx, report, t, img.ImageURL)
		if !ok || resolved == img.ImageURL {
			continue
		}

		// Only touch the row if it still holds the path that was checked.
		unchanged := db.Where("id = ? AND image_url = ?", img.ID, img.ImageURL)
		var res *gorm.DB
		if resolved == "" {
			res = unchanged.Delete(&models.ProductImage{})
		} else {
			res = unchanged.Model(&models.ProductImage{}).UpdateColumn("image_url", resolved)
		}
		if res.Error != nil {
			if err := report.itemFailed(t, res.Error); err != nil {
				return err
			}
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		if resolved == "" {
			report.apply("delete_image", t, img.ImageURL)
		} else {
			report.apply("rewrite_path", t, img.ImageURL+" -> "+resolved)
		}
	}
	return nil
}

// resolve returns the path the reference should hold: stored itself when it
// exists, the first existing variant, or "" when nothing resolves. ok is false
// when the file store failed and the item must be left alone.
func (j *ImagePathRepair) resolve(ctx context.Context, report *Report, t, stored string) (string, bool) {
	if isRemote(stored) {
		return stored, true
	}

	exists, err := j.files.Exists(ctx, stored)
	if err != nil {
		report.fail(t, err.Error())
		return "", false
	}
	if exists {
		return stored, true
	}

	for _, candidate := range j.variants(stored) {
		exists, err := j.files.Exists(ctx, candidate)
		if err != nil {
			report.fail(t, err.Error())
			return "", false
		}
		if exists {
			return candidate, true
		}
	}
	return "", true
}

// variants lists the deterministic rewrites of stored: the same relative path
// under every other known prefix, then the base name under every prefix.
func (j *ImagePathRepair) variants(stored string) []string {
	cleaned := storage.Clean(stored)
	seen := map[string]bool{stored: true, cleaned: true}
	var out []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, from := range j.opts.Prefixes {
		rest, ok := strings.CutPrefix(cleaned, from+"/")
		if !ok {
			continue
		}
		for _, to := range j.opts.Prefixes {
			if to != from {
				add(storage.Join(to, rest))
			}
		}
	}
	base := path.Base(cleaned)
	for _, prefix := range j.opts.Prefixes {
		add(storage.Join(prefix, base))
	}
	return out
}

// backfill gives products without any image a primary image from the pool,
// matched on normalized names. Each pool file is used at most once.
func (j *ImagePathRepair) backfill(ctx context.Context, db *gorm.DB, report *Report) error {
	var products []models.Product
	err := db.Select("id", "name").
		Where("(products.image_url = '' OR products.image_url IS NULL)").
		Where("NOT EXISTS (SELECT 1 FROM product_images WHERE product_images.product_id = products.id)").
		Order("id").
		Find(&products).Error
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	pool, err := j.files.List(ctx, j.opts.PoolDir)
	if err != nil {
		report.fail("pool:"+j.opts.PoolDir, err.Error())
		return nil
	}
	claimed, err := claimedPaths(db)
	if err != nil {
		return err
	}

	for _, p := range products {
		name := normalize(p.Name)
		if len(name) < minFuzzyLen {
			continue
		}
		file := matchFile(name, pool, claimed)
		if file == "" {
			continue
		}

		t := target("product", p.ID)
		err := db.Transaction(func(tx *gorm.DB) error {
			image := models.ProductImage{ProductID: p.ID, ImageURL: file, IsPrimary: true}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
			res := tx.Model(&models.Product{}).
				Where("id = ? AND (image_url = '' OR image_url IS NULL)", p.ID).
				UpdateColumn("image_url", file)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errImageChanged
			}
			return nil
		})
		if errors.Is(err, errImageChanged) {
			continue
		}
		if err != nil {
			if err := report.itemFailed(t, err); err != nil {
				return err
			}
			continue
		}
		claimed[file] = true
		report.apply("backfill_image", t, file)
	}
	return nil
}

func claimedPaths(db *gorm.DB) (map[string]bool, error) {
	var productPaths, galleryPaths []string
	if err := db.Model(&models.Product{}).Where("image_url <> ''").Pluck("image_url", &productPaths).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ProductImage{}).Pluck("image_url", &galleryPaths).Error; err != nil {
		return nil, err
	}
	claimed := make(map[string]bool, len(productPaths)+len(galleryPaths))
	for _, p := range append(productPaths, galleryPaths...) {
		claimed[storage.Clean(p)] = true
	}
	return claimed, nil
}

// matchFile returns the first unclaimed pool file whose normalized base name
// contains, or is contained in, the normalized product name.
func matchFile(name string, pool []string, claimed map[string]bool) string {
	for _, file := range pool {
		if claimed[storage.Clean(file)] {
			continue
		}
		base := path.Base(file)
		stem := normalize(strings.TrimSuffix(base, path.Ext(base)))
		if len(stem) < minFuzzyLen {
			continue
		}
		if strings.Contains(name, stem) || strings.Contains(stem, name) {
			return file
		}
	}
	return ""
}

// normalize lowercases s and keeps only letters and digits.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isRemote(p string) bool {
	return strings.Contains(p, "://")
}
