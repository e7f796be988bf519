// Package catalog describes the child relationships ("links") of entity
// types and memoizes their lookup.
//
// Relationships are declared once at startup in a Registry:
//
//	reg := catalog.NewRegistry()
//	reg.Register("customer",
//		catalog.Link{Name: "Orders", Target: "order", Detail: true},
//		catalog.Link{Name: "Notes", Target: "note"},
//	)
//
// and looked up through a Memo that keeps one entry per type in a
// cache.CacheService until it is invalidated:
//
//	memo := catalog.NewMemo(reg, svc)
//	links, err := memo.LinksOf(ctx, "customer")
//	memo.Invalidate(ctx, "customer")
package catalog
