// Package scm provides a native Go client for the Palo Alto Networks
// Strata Cloud Manager configuration API.
//
// # Features
//
//   - One generic CRUD service per configuration resource
//   - Automatic offset/limit pagination with Go 1.25+ iterators
//   - Client-side filtering with exact-match and container exclusions
//   - Typed errors classified from the API's error envelope
//   - OAuth2 client-credentials authentication scoped to a tenant
//
// # Quick Start
//
//	client, err := scm.NewClient(
//	    scm.WithCredentials(clientID, clientSecret, tsgID),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	addrs, err := client.Addresses.List(ctx, scm.InFolder("Texas"), &scm.ListOptions{
//	    Filters:    map[string]any{"types": []string{"fqdn"}},
//	    ExactMatch: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range addrs {
//	    fmt.Println(a.Name)
//	}
//
// # Containers
//
// Every configuration object lives in exactly one container: a folder, a
// snippet or a device. A Container names it for List and Fetch, and request
// models embed one for Create and Update:
//
//	req := &scm.TagRequest{Name: "web", Container: scm.InFolder("Texas")}
//
// # Pagination
//
// List walks all pages and returns the full result. All yields items lazily:
//
//	for rule, err := range client.SecurityRules.All(ctx, scm.InFolder("Shared")) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(rule.Name)
//	}
//
// # Error Handling
//
// API failures are returned as typed errors that can be inspected with
// errors.As:
//
//	err := client.Addresses.Delete(ctx, id)
//	var inUse *scm.ReferenceNotZeroError
//	if errors.As(err, &inUse) {
//	    fmt.Println("still referenced:", inUse.Details)
//	}
//
// Every typed error also matches *APIError, which carries the HTTP status,
// the API error code and the raw details.
package scm
