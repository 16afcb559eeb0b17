package form

const MsgAgreementRequired = "You must accept the developer agreement to continue."

// Agreement records developer agreement acceptance with an optional
// newsletter opt-in.
type Agreement struct {
	ReadDevAgreement bool `json:"read_dev_agreement"`
	Newsletter       bool `json:"newsletter"`
}

func (f *Agreement) Validate() Errors {
	errs := Errors{}

	if !f.ReadDevAgreement {
		errs.Add("read_dev_agreement", MsgAgreementRequired)
	}

	return errs
}
