package client

import (
	"encoding/json"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"strings"
)

type PageAutomationInterface interface {
	ReadAssetName() (string, error)
	ReadPrice(side model.Side) (string, error)
	ReadBalance() (string, error)
	WriteOrderPrice(value string) error
	WriteOrderAmount(value string) error
	WriteOrderQuantityPercent(value string) error
	WriteReversePrice(value string) error
	SetReverseOrder(enabled bool) error
	SubmitOrder() error
	HasPendingOrder(side model.Side) (bool, error)
	CancelPendingOrders() error
	HasOpenPosition() (bool, error)
	HasUnknownModal() (bool, error)
	HasAuthChallenge() (bool, error)
	GetAuthStep() (model.AuthStep, error)
	SkipPasskey() error
	SelectAuthenticatorMethod() error
	EnterAuthCode(code string) error
	SwitchPanel(panel model.Panel) error
	Reload() error
	IsConnected() bool
}

const notFoundMarker = "not_found:"
const timeoutMarker = "timeout:"

const scriptPrelude = `
const sleep = ms => new Promise(resolve => setTimeout(resolve, ms));
const notFound = what => new Error('not_found:' + what);
const orderPanel = '.flexlayout__tab[data-layout-path="/r1/ts0/t0"]';
const unknownModal = "div[role='dialog'][class='bn-modal-wrap data-size-small']";
const setValue = (input, value) => {
  if (!input) throw notFound('input');
  const setter = Object.getOwnPropertyDescriptor(HTMLInputElement.prototype, 'value').set;
  setter.call(input, value);
  input.dispatchEvent(new Event('input', { bubbles: true }));
  input.dispatchEvent(new Event('change', { bubbles: true }));
};
const fire = el => el && el.dispatchEvent(new MouseEvent('click', { bubbles: true, cancelable: true, view: window }));
const mfaRoot = () => {
  const host = document.querySelector('#mfa-shadow-host');
  return host ? host.shadowRoot : null;
};
const openPanel = async index => {
  const tab = document.querySelector('.bn-tab__buySell[aria-controls="bn-tab-pane-' + index + '"]');
  if (!tab) throw notFound('trade panel ' + index);
  tab.click();
  await sleep(300);
  tab.click();
  await sleep(300);
};
`

// pageScript wraps body into a function resolving with {error, val}.
func pageScript(body string) string {
	return fmt.Sprintf(`async (...args) => {
%s
try {
%s
} catch (error) {
  return { error: String((error && error.message) || error), val: null };
}
}`, scriptPrelude, body)
}

var readAssetNameScript = pageScript(`
const dom = document.querySelector('.bg-BasicBg .text-PrimaryText');
if (!dom) throw notFound('asset name');
return { error: '', val: dom.textContent.trim() };
`)

var readPriceScript = pageScript(`
const side = args[0];
const el = document.querySelector('.ReactVirtualized__List [style*="--color-' + side + '"]');
if (!el) throw notFound(side + ' price');
return { error: '', val: el.textContent.trim() };
`)

var readBalanceScript = pageScript(`
await openPanel(0);
const el = document.querySelector(orderPanel + ' .t-caption1 div[class~="text-PrimaryText"]');
if (!el) throw notFound('balance');
return { error: '', val: el.textContent.replace(' USDT', '').replace(/,/g, '').trim() };
`)

var writeOrderPriceScript = pageScript(`
setValue(document.querySelector('input#limitPrice'), args[0]);
await sleep(16);
return { error: '', val: true };
`)

var writeOrderAmountScript = pageScript(`
setValue(document.querySelector(orderPanel + ' #limitTotal'), args[0]);
await sleep(16);
return { error: '', val: true };
`)

var writeOrderQuantityPercentScript = pageScript(`
setValue(document.querySelector(orderPanel + ' input[type="range"]'), args[0]);
await sleep(16);
return { error: '', val: true };
`)

var writeReversePriceScript = pageScript(`
const totals = document.querySelectorAll('input#limitTotal');
if (totals.length < 2) throw notFound('reverse price');
setValue(totals[1], args[0]);
await sleep(16);
return { error: '', val: true };
`)

var setReverseOrderScript = pageScript(`
const box = document.querySelector(orderPanel + ' .bn-checkbox');
if (box) {
  const checked = box.getAttribute('aria-checked') === 'true';
  if (checked !== args[0]) box.click();
}
return { error: '', val: true };
`)

var submitOrderScript = pageScript(`
const button = document.querySelector(orderPanel + ' button.bn-button__buy, ' + orderPanel + ' button.bn-button__sell');
if (!button) throw notFound('submit button');
button.click();
let confirmed = false;
for (let frame = 0; frame < 32; frame++) {
  await sleep(1000 / 30);
  const confirm = document.querySelector(unknownModal)?.querySelector('.bn-button__primary');
  if (confirmed && !confirm) {
    await sleep(500);
    return { error: '', val: true };
  }
  if (confirm) {
    confirm.click();
    confirmed = true;
    await sleep(500);
  }
}
if (confirmed) return { error: '', val: true };
throw new Error('timeout:submit confirmation');
`)

var hasPendingOrderScript = pageScript(`
const selector = args[0] === 'Buy'
  ? '#bn-tab-pane-orderOrder td div[style="color: var(--color-Buy);"]'
  : '#bn-tab-pane-orderOrder .bn-web-table-row';
return { error: '', val: document.querySelectorAll(selector).length > 0 };
`)

var cancelPendingOrdersScript = pageScript(`
const cancelAll = document.querySelector('#bn-tab-pane-orderOrder th[aria-colindex="9"] div[class="text-TextLink cursor-pointer"]');
if (cancelAll) {
  cancelAll.click();
  await sleep(300);
  const confirm = document.querySelector('.bn-modal-confirm .bn-modal-confirm-actions .bn-button__primary');
  if (confirm) confirm.click();
  await sleep(1000);
}
const rows = Array.from(document.querySelectorAll('#bn-tab-pane-orderOrder .bn-web-table-row'));
rows.forEach(row => fire(row.querySelector('td[aria-colindex="9"] svg')));
if (rows.length) await sleep(1000);
return { error: '', val: true };
`)

var hasOpenPositionScript = pageScript(`
await openPanel(1);
const row = document.querySelector('.ReactVirtualized__Grid__innerScrollContainer div.cursor-pointer');
if (!row) throw notFound('sell price');
setValue(document.querySelector('input#limitPrice'), row.textContent.trim());
await sleep(16);
setValue(document.querySelector(orderPanel + ' input[type="range"]'), '100');
await sleep(16);
const total = document.querySelector(orderPanel + ' #limitTotal');
if (!total) throw notFound('sell total');
return { error: '', val: Number(total.value) >= 1 };
`)

var hasUnknownModalScript = pageScript(`
return { error: '', val: !!document.querySelector(unknownModal) };
`)

var hasAuthChallengeScript = pageScript(`
return { error: '', val: !!document.querySelector('#mfa-shadow-host') };
`)

var getAuthStepScript = pageScript(`
if (!document.querySelector('#mfa-shadow-host')) return { error: '', val: 'none' };
const root = mfaRoot();
if (!root) return { error: '', val: 'unknown' };
const title = root.querySelector('.mfa-security-page-title')?.textContent?.trim();
if (title === '通过通行密钥验证' || title === 'Verify with passkey') return { error: '', val: 'passkey' };
const label = root.querySelector('.bn-formItem-label')?.textContent?.trim();
if ((label === '身份验证器App' || label === 'Verification code') && root.querySelector('.bn-textField-input')) {
  return { error: '', val: 'code_entry' };
}
const steps = Array.from(root.querySelectorAll('.bn-mfa-overview-step-title'));
if (steps.some(step => step.innerHTML.includes('身份验证') || step.innerHTML.includes('Authenticator'))) {
  return { error: '', val: 'method_selection' };
}
return { error: '', val: 'unknown' };
`)

var skipPasskeyScript = pageScript(`
const root = mfaRoot();
if (!root) throw notFound('auth dialog');
const link = root.querySelector('.bidscls-btnLink2');
if (!link) throw notFound('passkey skip link');
link.click();
await sleep(1000);
return { error: '', val: true };
`)

var selectAuthenticatorMethodScript = pageScript(`
const root = mfaRoot();
if (!root) throw notFound('auth dialog');
const step = Array.from(root.querySelectorAll('.bn-mfa-overview-step-title'))
  .find(c => c.innerHTML.includes('身份验证') || c.innerHTML.includes('Authenticator'));
if (!step) throw notFound('authenticator method');
step.click();
await sleep(1000);
return { error: '', val: true };
`)

var enterAuthCodeScript = pageScript(`
const root = mfaRoot();
if (!root) throw notFound('auth dialog');
setValue(root.querySelector('.bn-textField-input'), args[0]);
return { error: '', val: true };
`)

var switchPanelScript = pageScript(`
await openPanel(args[0] === 'Sell' ? 1 : 0);
return { error: '', val: true };
`)

// PageAutomation drives the exchange trading page. DOM details stay inside the scripts.
type PageAutomation struct {
	DevTools ScriptRunnerInterface
}

func (p *PageAutomation) run(name string, script string, args ...any) (model.ScriptResult, error) {
	if args == nil {
		args = make([]any, 0)
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return model.ScriptResult{}, err
	}

	result, err := p.DevTools.Evaluate(fmt.Sprintf("(%s)(...%s)", script, string(encoded)))
	if err != nil {
		return model.ScriptResult{}, fmt.Errorf("%s: %w", name, err)
	}

	if result.HasError() {
		return result, scriptError(name, result.Error)
	}

	return result, nil
}

func scriptError(name string, message string) error {
	switch {
	case strings.HasPrefix(message, notFoundMarker):
		return fmt.Errorf("%w: %s: %s", model.ErrElementNotFound, name, strings.TrimPrefix(message, notFoundMarker))
	case strings.HasPrefix(message, timeoutMarker):
		return fmt.Errorf("%w: %s: %s", model.ErrSubmitTimeout, name, strings.TrimPrefix(message, timeoutMarker))
	}

	return fmt.Errorf("%w: %s: %s", model.ErrPageScript, name, message)
}

func (p *PageAutomation) exec(name string, script string, args ...any) error {
	_, err := p.run(name, script, args...)
	return err
}

func (p *PageAutomation) flag(name string, script string, args ...any) (bool, error) {
	result, err := p.run(name, script, args...)
	if err != nil {
		return false, err
	}

	return result.Bool(), nil
}

func (p *PageAutomation) text(name string, script string, args ...any) (string, error) {
	result, err := p.run(name, script, args...)
	if err != nil {
		return "", err
	}

	value := result.String()
	if len(value) == 0 {
		return "", fmt.Errorf("%w: %s: empty value", model.ErrElementNotFound, name)
	}

	return value, nil
}

func (p *PageAutomation) ReadAssetName() (string, error) {
	return p.text("readAssetName", readAssetNameScript)
}

func (p *PageAutomation) ReadPrice(side model.Side) (string, error) {
	return p.text("readPrice", readPriceScript, string(side))
}

func (p *PageAutomation) ReadBalance() (string, error) {
	return p.text("readBalance", readBalanceScript)
}

func (p *PageAutomation) WriteOrderPrice(value string) error {
	return p.exec("writeOrderPrice", writeOrderPriceScript, value)
}

func (p *PageAutomation) WriteOrderAmount(value string) error {
	return p.exec("writeOrderAmount", writeOrderAmountScript, value)
}

func (p *PageAutomation) WriteOrderQuantityPercent(value string) error {
	return p.exec("writeOrderQuantityPercent", writeOrderQuantityPercentScript, value)
}

func (p *PageAutomation) WriteReversePrice(value string) error {
	return p.exec("writeReversePrice", writeReversePriceScript, value)
}

func (p *PageAutomation) SetReverseOrder(enabled bool) error {
	return p.exec("setReverseOrder", setReverseOrderScript, enabled)
}

func (p *PageAutomation) SubmitOrder() error {
	return p.exec("submitOrder", submitOrderScript)
}

func (p *PageAutomation) HasPendingOrder(side model.Side) (bool, error) {
	return p.flag("hasPendingOrder", hasPendingOrderScript, string(side))
}

func (p *PageAutomation) CancelPendingOrders() error {
	return p.exec("cancelPendingOrders", cancelPendingOrdersScript)
}

func (p *PageAutomation) HasOpenPosition() (bool, error) {
	return p.flag("hasOpenPosition", hasOpenPositionScript)
}

func (p *PageAutomation) HasUnknownModal() (bool, error) {
	return p.flag("hasUnknownModal", hasUnknownModalScript)
}

func (p *PageAutomation) HasAuthChallenge() (bool, error) {
	return p.flag("hasAuthChallenge", hasAuthChallengeScript)
}

func (p *PageAutomation) GetAuthStep() (model.AuthStep, error) {
	result, err := p.run("getAuthStep", getAuthStepScript)
	if err != nil {
		return model.AuthStepUnknown, err
	}

	switch step := model.AuthStep(result.String()); step {
	case model.AuthStepNone, model.AuthStepPasskey, model.AuthStepMethodSelection, model.AuthStepCodeEntry:
		return step, nil
	}

	return model.AuthStepUnknown, nil
}

func (p *PageAutomation) SkipPasskey() error {
	return p.exec("skipPasskey", skipPasskeyScript)
}

func (p *PageAutomation) SelectAuthenticatorMethod() error {
	return p.exec("selectAuthenticatorMethod", selectAuthenticatorMethodScript)
}

func (p *PageAutomation) EnterAuthCode(code string) error {
	return p.exec("enterAuthCode", enterAuthCodeScript, code)
}

func (p *PageAutomation) SwitchPanel(panel model.Panel) error {
	return p.exec("switchPanel", switchPanelScript, string(panel))
}

func (p *PageAutomation) Reload() error {
	return p.DevTools.Reload()
}

func (p *PageAutomation) IsConnected() bool {
	return p.DevTools.IsConnected()
}
