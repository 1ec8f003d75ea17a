// Package consultdesk provides a Go client for the consultation records service.
//
// The client keeps a local cache of consultation records, runs paginated
// similarity searches against the service and drives a list/form/search view
// on top of both.
//
// # Records
//
//	client, _ := consultdesk.New(consultdesk.WithBaseURL("http://localhost:8000"))
//	_ = client.Records().Load(ctx)
//	rec, _ := client.Records().Create(ctx, "Patient reports a mild headache since morning")
//	_ = client.Records().Delete(ctx, rec.ID)
//
// # Search
//
//	page, _ := client.Search().Query("headache").Threshold(0.5).Page(2).Do(ctx)
//	for _, hit := range page.Hits {
//	    fmt.Println(hit.ID, hit.Similarity)
//	}
//
// # View
//
//	v := client.View()
//	_ = v.StartEdit(ctx, rec.ID)
//	_ = v.Submit(ctx, "Follow-up visit scheduled for next week")
//	d := v.Display()
package consultdesk
