package solapi

// message is one entry of a send-many request
type message struct {
	To           string        `json:"to"`
	From         string        `json:"from"`
	Text         string        `json:"text,omitempty"`
	Type         string        `json:"type"`
	Subject      string        `json:"subject,omitempty"`
	ImageID      string        `json:"imageId,omitempty"`
	KakaoOptions *kakaoOptions `json:"kakaoOptions,omitempty"`
}

type kakaoButton struct {
	ButtonName string `json:"buttonName"`
	ButtonType string `json:"buttonType"`
	LinkMo     string `json:"linkMo"`
	LinkPc     string `json:"linkPc,omitempty"`
}

type kakaoOptions struct {
	PFID       string            `json:"pfId"`
	TemplateID string            `json:"templateId,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
	DisableSMS bool              `json:"disableSms"`
	Buttons    []kakaoButton     `json:"buttons,omitempty"`
}

type sendManyRequest struct {
	Messages        []message `json:"messages"`
	AllowDuplicates bool      `json:"allowDuplicates"`
}

type messageResult struct {
	To            string `json:"to"`
	Status        string `json:"status"`
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	ErrorMessage  string `json:"errorMessage"`
}

type sendManyResponse struct {
	GroupID string          `json:"groupId"`
	Results []messageResult `json:"results"`
}

type uploadRequest struct {
	File string `json:"file"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type uploadResponse struct {
	FileID string `json:"fileId"`
}

type errorResponse struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

const statusCodeOK = "2000"

func (r messageResult) ok() bool {
	return r.StatusCode == statusCodeOK || r.Status == "success"
}
