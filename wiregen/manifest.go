package wiregen

// Manifest is a JSON-friendly view of the contracts of one generation pass,
// served by the dev command for runtime introspection.
type Manifest struct {
	Services    []ManifestService `json:"services"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
}

// ManifestService describes one contract.
type ManifestService struct {
	Name      string           `json:"name"`
	Namespace string           `json:"namespace"`
	Interface string           `json:"interface,omitempty"`
	Methods   []ManifestMethod `json:"methods"`
}

// ManifestMethod describes one wire endpoint.
type ManifestMethod struct {
	Name     string `json:"name"`
	Route    string `json:"route"`
	Verb     string `json:"verb"`
	Request  string `json:"request,omitempty"`
	Response string `json:"response,omitempty"`
}

// BuildManifest summarizes a result's contracts. Verbs are reported from the
// same Request-presence rule the emitters use.
func BuildManifest(r *Result) *Manifest {
	m := &Manifest{}
	for _, c := range r.Contracts {
		svc := ManifestService{
			Name:      c.Name,
			Namespace: c.Namespace,
			Interface: c.Interface,
			Methods:   []ManifestMethod{},
		}
		for _, method := range c.Methods {
			verb := "GET"
			if method.Request != "" {
				verb = "POST"
			}
			svc.Methods = append(svc.Methods, ManifestMethod{
				Name:     method.Name,
				Route:    method.Route,
				Verb:     verb,
				Request:  method.Request,
				Response: method.Response,
			})
		}
		m.Services = append(m.Services, svc)
	}
	for _, d := range r.Diagnostics {
		m.Diagnostics = append(m.Diagnostics, d.String())
	}
	return m
}
