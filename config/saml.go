package config

// SAMLConfig contains configuration for the optional SAML bridge.
// When disabled the /auth/saml routes are not registered.
type SAMLConfig struct {
	// Enabled turns the SAML bridge routes on.
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// EntryPoint is the IdP SSO URL the login redirect targets.
	EntryPoint string `env:"ENTRY_POINT"`

	// Issuer is the SP entity ID presented to the IdP.
	Issuer string `env:"ISSUER" envDefault:"adgate-sp"`

	// CallbackURL is the assertion consumer service URL.
	CallbackURL string `env:"CALLBACK_URL" envDefault:"http://localhost:8080/auth/saml/callback"`

	// Cert is the IdP signing certificate in PEM form. Assertion
	// signature validation is delegated to the deployment's fronting
	// infrastructure when empty.
	Cert string `env:"CERT"`
}
