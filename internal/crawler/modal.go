package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/internal/nutrition"
	cerrors "cafepick/menuworker/pkg/errors"
)

// modalStrategy crawls sites that reveal nutrition only through an
// overlay: clicking a product opens a details panel that must be
// dismissed again before the next product. Only one modal can be open
// per browser context, so containers are processed strictly
// sequentially.
type modalStrategy struct {
	*base
}

func (st *modalStrategy) run(ctx context.Context) error {
	doc, err := st.loadDoc(ctx, st.def.StartURL)
	if err != nil {
		return err
	}

	for page := 1; page <= nextPageCap; page++ {
		url := st.def.StartURL
		if current, cerr := st.page.CurrentURL(ctx); cerr == nil && current != "" {
			url = current
		}
		st.processListing(ctx, url, doc)

		if st.limits.TestMode || st.def.Pagination != PaginationNextButton || st.def.Selectors.NextButton == "" {
			return nil
		}
		if !st.budget.take() {
			return nil
		}
		if err := st.page.Click(ctx, st.def.Selectors.NextButton); err != nil {
			// Control absent or disabled: end of the catalog
			return nil
		}
		doc, err = st.snapshot(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func (st *modalStrategy) processListing(ctx context.Context, pageURL string, doc *goquery.Document) {
	ectx := model.ExtractionContext{
		BaseURL: st.def.BaseURL,
		PageURL: pageURL,
	}

	seen := newPageDedup()
	for i, s := range st.containers(doc) {
		if err := st.processItem(ctx, ectx, i, s, seen); err != nil {
			st.log.Warn().Err(err).Int("index", i).Msg("Item failed, continuing")
		}
	}
}

// processItem extracts one container's basic fields, then walks the
// modal open → read → close cycle for its nutrition. Closing is always
// attempted, error paths included, so the next container starts from a
// clean listing state.
func (st *modalStrategy) processItem(ctx context.Context, ectx model.ExtractionContext, index int, s *goquery.Selection, seen *pageDedup) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cerrors.NewExtraction(st.def.Brand, fmt.Sprintf("item panicked: %v", r), nil)
		}
	}()

	p, perr := st.extractProduct(ectx, s)
	if perr != nil {
		return perr
	}
	if p == nil {
		return nil
	}
	if !seen.claim(p.ExternalID) {
		return nil
	}

	n, merr := st.nutritionFromModal(ctx, ectx, index, s)
	if merr != nil {
		// Absent nutrition never drops the product
		st.log.Debug().Err(merr).Str("name", p.Name).Msg("Modal nutrition unavailable")
	}
	p.Nutritions = n

	st.emit(p)
	return nil
}

// nutritionFromModal clicks the item's trigger, waits for the modal to
// become visible, reads it, and dismisses it again.
func (st *modalStrategy) nutritionFromModal(ctx context.Context, ectx model.ExtractionContext, index int, s *goquery.Selection) (n *model.Nutritions, err error) {
	sel := st.def.Selectors
	if sel.ModalTrigger == "" || sel.ModalContainer == "" {
		return st.extractNutrition(ctx, ectx, s), nil
	}

	if err := st.page.ClickNth(ctx, sel.ModalTrigger, index); err != nil {
		return nil, cerrors.NewNavigation(st.def.Brand, "failed to open modal", err)
	}
	// The modal is open (or opening) from here on: always attempt to
	// dismiss it before moving to the next container
	defer st.dismissModal(ctx)

	if err := st.modalWait().Wait(ctx, st.page, sel.ModalContainer, st.log); err != nil {
		return nil, cerrors.NewNavigation(st.def.Brand, "modal never became visible", err)
	}

	html, err := st.page.OuterHTML(ctx, sel.ModalContainer)
	if err != nil {
		return nil, cerrors.NewNavigation(st.def.Brand, "failed to read modal", err)
	}
	modalDoc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, cerrors.NewParsing(st.def.Brand, "failed to parse modal", err)
	}

	if st.def.ExtractNutrition != nil {
		found, err := st.def.ExtractNutrition(ctx, st.page, ectx, modalDoc.Selection)
		if err != nil {
			return nil, err
		}
		return found.OrNil(), nil
	}

	// Serving-size/calorie text plus itemized rows, via the shared
	// pattern table and the label/value mapping
	n = nutrition.FromText(modalDoc.Text())
	if sel.NutritionLabels != "" && sel.NutritionValues != "" {
		if itemized := nutrition.FromDefinitionList(modalDoc.Selection, sel.NutritionLabels, sel.NutritionValues); itemized != nil {
			if n == nil {
				n = itemized
			} else {
				mergeNutritions(n, itemized)
			}
		}
	}
	return n, nil
}

// dismissModal closes the open modal; when the close control fails an
// escape keystroke is the fallback.
func (st *modalStrategy) dismissModal(ctx context.Context) {
	if st.def.Selectors.ModalClose != "" {
		if err := st.page.Click(ctx, st.def.Selectors.ModalClose); err == nil {
			return
		}
	}
	if err := st.page.PressEscape(ctx); err != nil {
		st.log.Warn().Err(err).Msg("Failed to dismiss modal")
	}
}

// mergeNutritions fills dst's absent fields from src
func mergeNutritions(dst, src *model.Nutritions) {
	if dst.ServingSizeUnit == "" && src.ServingSizeUnit != "" {
		dst.ServingSize, dst.ServingSizeUnit = src.ServingSize, src.ServingSizeUnit
	}
	if dst.CaloriesUnit == "" && src.CaloriesUnit != "" {
		dst.Calories, dst.CaloriesUnit = src.Calories, src.CaloriesUnit
	}
	if dst.CarbohydratesUnit == "" && src.CarbohydratesUnit != "" {
		dst.Carbohydrates, dst.CarbohydratesUnit = src.Carbohydrates, src.CarbohydratesUnit
	}
	if dst.SugarUnit == "" && src.SugarUnit != "" {
		dst.Sugar, dst.SugarUnit = src.Sugar, src.SugarUnit
	}
	if dst.ProteinUnit == "" && src.ProteinUnit != "" {
		dst.Protein, dst.ProteinUnit = src.Protein, src.ProteinUnit
	}
	if dst.FatUnit == "" && src.FatUnit != "" {
		dst.Fat, dst.FatUnit = src.Fat, src.FatUnit
	}
	if dst.TransFatUnit == "" && src.TransFatUnit != "" {
		dst.TransFat, dst.TransFatUnit = src.TransFat, src.TransFatUnit
	}
	if dst.SaturatedFatUnit == "" && src.SaturatedFatUnit != "" {
		dst.SaturatedFat, dst.SaturatedFatUnit = src.SaturatedFat, src.SaturatedFatUnit
	}
	if dst.NatriumUnit == "" && src.NatriumUnit != "" {
		dst.Natrium, dst.NatriumUnit = src.Natrium, src.NatriumUnit
	}
	if dst.CholesterolUnit == "" && src.CholesterolUnit != "" {
		dst.Cholesterol, dst.CholesterolUnit = src.Cholesterol, src.CholesterolUnit
	}
	if dst.CaffeineUnit == "" && src.CaffeineUnit != "" {
		dst.Caffeine, dst.CaffeineUnit = src.Caffeine, src.CaffeineUnit
	}
}
