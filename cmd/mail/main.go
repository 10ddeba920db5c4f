package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/ikyoku-dev/resident-match/backend/internal/config"
	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func main() {
	/**********************************************
	 * logger の作成
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 設定の読み込み
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("設定を読み込めません", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * メールクライアントの作成
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("メールクライアントを作成できません", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("メールサーバーに接続できません", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * RabbitMQ 接続
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("RabbitMQ に接続できません", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("チャネルを作成できません", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("キューを宣言できません", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("メッセージを購読できません", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("メッセージを受信しました", slog.String("message", string(msg.Body)))
				mailMessage := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
					logger.Error("メッセージの解析に失敗しました", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				m := mail.NewMsg()
				if err := m.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("差出人を設定できません", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.To(mailMessage.To); err != nil {
					logger.Error("宛先を設定できません", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// メール種別ごとにテンプレートを使い分ける
				var templatePath, subject string
				switch mailMessage.Type {
				case "create_user":
					templatePath = "./templates/new_account_email.html"
					subject = "専攻医配属支援システム - アカウント情報"
				case "reset_password":
					templatePath = "./templates/reset_password_otp_email.html"
					subject = "専攻医配属支援システム - パスワード再設定"
				case "change_email":
					templatePath = "./templates/change_email_email.html"
					subject = "専攻医配属支援システム - メールアドレス変更"
				case "assignment_notice":
					templatePath = "./templates/assignment_notice_email.html"
					subject = "専攻医配属支援システム - 配属先のお知らせ"
				default:
					logger.Error("対応していないメール種別です", slog.String("type", mailMessage.Type))
					_ = msg.Nack(false, false)
					continue
				}

				tmpl, err := template.ParseFiles(templatePath)
				if err != nil {
					logger.Error("メールテンプレートを解析できません", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
					logger.Error("メール本文を設定できません", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				m.Subject(subject)

				if err := client.DialAndSend(m); err != nil {
					logger.Error("メールの送信に失敗しました", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // 再キューイングしてリトライ
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("メッセージを待機しています...（CTRL+C で終了）")
	<-sigChan

	slog.Info("mail worker を停止しています...")
	cancel()
	wg.Wait()
	slog.Info("mail worker を停止しました")
}
