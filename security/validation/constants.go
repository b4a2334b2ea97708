package validation

const (
	MaxShortTextLength = 128
	MaxLongTextLength  = 1024

	// Short text fields
	RecipientField   = "recipient"
	BeneficiaryField = "beneficiary"
	AmountField      = "amount"
	AddressField     = "address"
	CategoryField    = "category"

	// Long text fields
	PurposeField = "purpose"
)

var InjectionPatterns = []string{
	"${{", "{{", "}}", "${", "#{", "{%", "%}", "{{{", // templates/SSTI
	"%0a", "%0d", "%0a%0d", "%00", "%27", "%22", "%3c", "%3e", // encoded attacks (decode first)
	"${jndi:", "ldap://", "ldaps://", // JNDI/ldap
	"eval(", "exec(", "system(", "popen(", // dangerous funcs
	"<script", "javascript:",
}
